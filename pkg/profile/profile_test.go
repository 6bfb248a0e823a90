package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofiler/pkg/models"
	"igprofiler/pkg/payload"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func locate(t *testing.T, page string) payload.RawPayload {
	t.Helper()
	raw, ok := payload.Locate(page)
	require.True(t, ok, "fixture must contain a payload")
	return raw
}

func sharedData(json string) string {
	return "<html><script>window._sharedData = " + json + ";</script></html>"
}

func TestResolveFullProfile(t *testing.T) {
	raw := locate(t, sharedData(`{
		"entry_data": {"ProfilePage": [{"graphql": {"user": {
			"username": "alice",
			"full_name": "Alice A",
			"biography": "photographer",
			"external_url": "https://alice.example",
			"category_name": "Artist",
			"profile_pic_url": "https://cdn.example/sd.jpg",
			"profile_pic_url_hd": "https://cdn.example/hd.jpg",
			"edge_followed_by": {"count": 1000},
			"edge_follow": {"count": 150},
			"edge_owner_to_timeline_media": {"edges": [
				{"node": {"__typename": "GraphImage", "edge_liked_by": {"count": 10}, "edge_media_to_comment": {"count": 1}}},
				{"node": {"__typename": "GraphImage", "edge_liked_by": {"count": 20}, "edge_media_to_comment": {"count": 3}}}
			]}
		}}}]}
	}`))

	want := models.ProfileRecord{
		Username:          "alice",
		FullName:          "Alice A",
		FollowersCount:    int64Ptr(1000),
		FollowsCount:      int64Ptr(150),
		EngagementRate:    float64Ptr(1.7),
		AverageLikes:      float64Ptr(15),
		AverageComments:   float64Ptr(2),
		ProfilePictureURL: "https://cdn.example/hd.jpg",
		Bio:               "photographer",
		Website:           "https://alice.example",
		Category:          "Artist",
		RecentPosts: []models.PostMetrics{
			{Likes: 10, Comments: 1},
			{Likes: 20, Comments: 3},
		},
	}

	got := Resolve("alice", raw)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveUserPaths(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"legacy shared data", `{"entry_data": {"ProfilePage": [{"graphql": {"user": {"username": "u", "edge_followed_by": {"count": 5}}}}]}}`},
		{"graphql user", `{"graphql": {"user": {"username": "u", "edge_followed_by": {"count": 5}}}}`},
		{"web profile info", `{"data": {"user": {"username": "u", "edge_followed_by": {"count": 5}}}}`},
		{"first path without username falls back", `{
			"entry_data": {"ProfilePage": [{"graphql": {"user": {"username": ""}}}]},
			"graphql": {"user": {"username": "u", "edge_followed_by": {"count": 5}}}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve("u", locate(t, sharedData(tt.json)))
			require.NotNil(t, got.FollowersCount)
			assert.Equal(t, int64(5), *got.FollowersCount)
		})
	}
}

func TestResolveDegradedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  payload.RawPayload
	}{
		{"nil payload", nil},
		{"empty mapping", payload.RawPayload{}},
		{"user without username", payload.RawPayload{
			"graphql": map[string]interface{}{"user": map[string]interface{}{"full_name": "Nameless"}},
		}},
		{"username not a string", payload.RawPayload{
			"graphql": map[string]interface{}{"user": map[string]interface{}{"username": 42}},
		}},
		{"user is a list", payload.RawPayload{
			"graphql": map[string]interface{}{"user": []interface{}{"x"}},
		}},
		{"profile page list empty", payload.RawPayload{
			"entry_data": map[string]interface{}{"ProfilePage": []interface{}{}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.ProfileRecord
			require.NotPanics(t, func() { got = Resolve("bob", tt.raw) })
			if diff := cmp.Diff(models.ProfileRecord{Username: "bob"}, got); diff != "" {
				t.Errorf("expected username-only record (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolvePosts(t *testing.T) {
	raw := locate(t, sharedData(`{"graphql": {"user": {
		"username": "carol",
		"edge_followed_by": {"count": "not a number"},
		"edge_owner_to_timeline_media": {"edges": [
			{"node": {}},
			{},
			"garbage",
			{"node": {"edge_liked_by": {"count": 0}, "edge_media_preview_like": {"count": 7}}},
			{"node": {"edge_media_preview_like": {"count": 4}, "edge_media_to_comment": {"count": 2}}},
			{"node": {"__typename": "GraphVideo", "edge_liked_by": {"count": 5}, "video_view_count": 300}},
			{"node": {"__typename": "GraphVideo", "edge_liked_by": {"count": 1}}},
			{"node": {"__typename": "GraphImage", "video_view_count": 99}}
		]}
	}}}`))

	got := Resolve("carol", raw)

	want := []models.PostMetrics{
		{},
		{},
		{Likes: 7},
		{Likes: 4, Comments: 2},
		{Likes: 5, Views: int64Ptr(300)},
		{Likes: 1},
		{},
	}
	if diff := cmp.Diff(want, got.RecentPosts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, got.FollowersCount, "non-numeric followers is absent")
	assert.Nil(t, got.EngagementRate, "no rate without followers")
	require.NotNil(t, got.AverageLikes, "averages do not depend on followers")
	assert.InDelta(t, 2.43, *got.AverageLikes, 1e-9)
	require.NotNil(t, got.AverageViews)
	assert.InDelta(t, 300.0, *got.AverageViews, 1e-9)
}

func TestResolveZeroPosts(t *testing.T) {
	raw := locate(t, sharedData(`{"graphql": {"user": {
		"username": "dave",
		"full_name": "Dave",
		"profile_pic_url": "https://cdn.example/sd.jpg",
		"biography": "",
		"external_url": null,
		"edge_followed_by": {"count": 1000},
		"edge_owner_to_timeline_media": {"count": 0, "edges": []}
	}}}`))

	got := Resolve("dave", raw)

	assert.Equal(t, "Dave", got.FullName)
	assert.Equal(t, "https://cdn.example/sd.jpg", got.ProfilePictureURL)
	assert.Empty(t, got.Bio)
	assert.Empty(t, got.Website)
	require.NotNil(t, got.FollowersCount)
	assert.Equal(t, int64(1000), *got.FollowersCount)
	assert.Empty(t, got.RecentPosts)
	assert.Nil(t, got.AverageLikes)
	assert.Nil(t, got.AverageComments)
	assert.Nil(t, got.AverageViews)
	assert.Nil(t, got.EngagementRate)
}

func TestResolveZeroFollowers(t *testing.T) {
	raw := locate(t, sharedData(`{"graphql": {"user": {
		"username": "erin",
		"edge_followed_by": {"count": 0},
		"edge_owner_to_timeline_media": {"edges": [{"node": {"edge_liked_by": {"count": 3}}}]}
	}}}`))

	got := Resolve("erin", raw)
	require.NotNil(t, got.FollowersCount)
	assert.Equal(t, int64(0), *got.FollowersCount)
	assert.Nil(t, got.EngagementRate)
	require.NotNil(t, got.AverageLikes)
	assert.InDelta(t, 3.0, *got.AverageLikes, 1e-9)
}

func TestResolveStringCounters(t *testing.T) {
	raw := locate(t, sharedData(`{"graphql": {"user": {
		"username": "eve",
		"edge_followed_by": {"count": "200"},
		"edge_owner_to_timeline_media": {"edges": [
			{"node": {"__typename": "GraphVideo", "video_view_count": "12.5",
				"edge_liked_by": {"count": "4"}, "edge_media_to_comment": {"count": 1}}},
			{"node": {"__typename": "GraphVideo", "video_view_count": "30",
				"edge_liked_by": {"count": 6}, "edge_media_to_comment": {"count": "1"}}}
		]}
	}}}`))

	record := Resolve("eve", raw)

	want := []models.PostMetrics{
		{Likes: 4, Comments: 1},
		{Likes: 6, Comments: 1, Views: int64Ptr(30)},
	}
	if diff := cmp.Diff(want, record.RecentPosts); diff != "" {
		t.Errorf("RecentPosts mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, record.FollowersCount)
	assert.Equal(t, int64(200), *record.FollowersCount)
	require.NotNil(t, record.AverageViews)
	assert.Equal(t, 30.0, *record.AverageViews)
}
