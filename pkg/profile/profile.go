// Package profile turns a decoded profile payload into a ProfileRecord.
package profile

import (
	"igprofiler/pkg/engagement"
	"igprofiler/pkg/models"
	"igprofiler/pkg/payload"
)

// UserPaths lists where the user object has lived across page versions,
// most specific first
var UserPaths = []payload.Path{
	{"entry_data", "ProfilePage", 0, "graphql", "user"},
	{"graphql", "user"},
	{"data", "user"},
}

// Resolve builds the record for username from raw. Missing or malformed
// fields are left absent; when no user object is found the record carries
// only the username.
func Resolve(username string, raw payload.RawPayload) models.ProfileRecord {
	record := models.ProfileRecord{Username: username}

	user, ok := findUser(raw)
	if !ok {
		return record
	}

	if n, ok := payload.Count(user, payload.Path{"edge_followed_by", "count"}); ok {
		record.FollowersCount = &n
	}
	if n, ok := payload.Count(user, payload.Path{"edge_follow", "count"}); ok {
		record.FollowsCount = &n
	}

	record.FullName = stringField(user, "full_name")
	record.ProfilePictureURL = stringField(user, "profile_pic_url_hd")
	if record.ProfilePictureURL == "" {
		record.ProfilePictureURL = stringField(user, "profile_pic_url")
	}
	record.Bio = stringField(user, "biography")
	record.Website = stringField(user, "external_url")
	record.Category = stringField(user, "category_name")

	record.RecentPosts = posts(user)

	record.AverageLikes = engagement.AverageLikes(record.RecentPosts)
	record.AverageComments = engagement.AverageComments(record.RecentPosts)
	record.AverageViews = engagement.AverageViews(record.RecentPosts)
	record.EngagementRate = engagement.Rate(record.RecentPosts, record.FollowersCount)

	return record
}

func findUser(raw payload.RawPayload) (map[string]interface{}, bool) {
	for _, path := range UserPaths {
		user, ok := payload.Map(raw, path)
		if !ok {
			continue
		}
		if _, ok := payload.String(user, payload.Path{"username"}); ok {
			return user, true
		}
	}
	return nil, false
}

func posts(user map[string]interface{}) []models.PostMetrics {
	edges, ok := payload.List(user, payload.Path{"edge_owner_to_timeline_media", "edges"})
	if !ok {
		return nil
	}

	result := make([]models.PostMetrics, 0, len(edges))
	for _, edge := range edges {
		e, ok := edge.(map[string]interface{})
		if !ok {
			continue
		}
		node, _ := payload.Map(e, payload.Path{"node"})
		result = append(result, postMetrics(node))
	}
	return result
}

// postMetrics reads one post node; a nil node yields zero counters
func postMetrics(node map[string]interface{}) models.PostMetrics {
	var post models.PostMetrics

	post.Likes, _ = payload.Count(node, payload.Path{"edge_liked_by", "count"})
	if post.Likes == 0 {
		post.Likes, _ = payload.Count(node, payload.Path{"edge_media_preview_like", "count"})
	}
	post.Comments, _ = payload.Count(node, payload.Path{"edge_media_to_comment", "count"})

	if typename, _ := payload.String(node, payload.Path{"__typename"}); typename == "GraphVideo" {
		if views, ok := payload.Count(node, payload.Path{"video_view_count"}); ok {
			post.Views = &views
		}
	}

	return post
}

func stringField(user map[string]interface{}, key string) string {
	s, _ := payload.String(user, payload.Path{key})
	return s
}
