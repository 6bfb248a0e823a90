package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PostMetrics holds the interaction counters of a single recent post
type PostMetrics struct {
	Likes    int64
	Comments int64
	// Views is only set for video posts that expose a view counter
	Views *int64
}

// ProfileRecord is the normalized result of scraping one profile.
// Optional numbers are nil when absent, optional strings are empty.
type ProfileRecord struct {
	Username          string
	FullName          string
	FollowersCount    *int64
	FollowsCount      *int64
	EngagementRate    *float64
	AverageLikes      *float64
	AverageComments   *float64
	AverageViews      *float64
	ProfilePictureURL string
	Bio               string
	Website           string
	Category          string
	RecentPosts       []PostMetrics
}

// Columns lists the flattened top-level fields in export order
var Columns = []string{
	"username",
	"fullName",
	"followersCount",
	"followsCount",
	"engagementRate",
	"averageLikes",
	"averageComments",
	"averageViews",
	"profilePictureUrl",
	"bio",
	"website",
	"category",
}

type postJSON struct {
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Views    *int64 `json:"views"`
}

type recordJSON struct {
	Username          string     `json:"username"`
	FullName          *string    `json:"fullName"`
	FollowersCount    *int64     `json:"followersCount"`
	FollowsCount      *int64     `json:"followsCount"`
	EngagementRate    *float64   `json:"engagementRate"`
	AverageLikes      *float64   `json:"averageLikes"`
	AverageComments   *float64   `json:"averageComments"`
	AverageViews      *float64   `json:"averageViews"`
	ProfilePictureURL *string    `json:"profilePictureUrl"`
	Bio               *string    `json:"bio"`
	Website           *string    `json:"website"`
	Category          *string    `json:"category"`
	RecentPosts       []postJSON `json:"recentPosts"`
}

// MarshalJSON writes the canonical wire shape; absent fields become null.
// Text is written as is, without HTML escaping.
func (r ProfileRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Username:          r.Username,
		FullName:          nullable(r.FullName),
		FollowersCount:    r.FollowersCount,
		FollowsCount:      r.FollowsCount,
		EngagementRate:    r.EngagementRate,
		AverageLikes:      r.AverageLikes,
		AverageComments:   r.AverageComments,
		AverageViews:      r.AverageViews,
		ProfilePictureURL: nullable(r.ProfilePictureURL),
		Bio:               nullable(r.Bio),
		Website:           nullable(r.Website),
		Category:          nullable(r.Category),
		RecentPosts:       make([]postJSON, 0, len(r.RecentPosts)),
	}
	for _, p := range r.RecentPosts {
		out.RecentPosts = append(out.RecentPosts, postJSON{
			Likes:    p.Likes,
			Comments: p.Comments,
			Views:    p.Views,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Row returns the record projected onto Columns. Absent values are empty cells.
func (r ProfileRecord) Row() []string {
	return []string{
		r.Username,
		r.FullName,
		formatInt(r.FollowersCount),
		formatInt(r.FollowsCount),
		formatFloat(r.EngagementRate),
		formatFloat(r.AverageLikes),
		formatFloat(r.AverageComments),
		formatFloat(r.AverageViews),
		r.ProfilePictureURL,
		r.Bio,
		r.Website,
		r.Category,
	}
}

// Values is Row with numbers kept numeric, for typed spreadsheet cells
func (r ProfileRecord) Values() []interface{} {
	return []interface{}{
		r.Username,
		r.FullName,
		intValue(r.FollowersCount),
		intValue(r.FollowsCount),
		floatValue(r.EngagementRate),
		floatValue(r.AverageLikes),
		floatValue(r.AverageComments),
		floatValue(r.AverageViews),
		r.ProfilePictureURL,
		r.Bio,
		r.Website,
		r.Category,
	}
}

// TruncatePosts keeps at most max leading posts. max <= 0 leaves the record untouched.
func (r *ProfileRecord) TruncatePosts(max int) {
	if max > 0 && len(r.RecentPosts) > max {
		r.RecentPosts = r.RecentPosts[:max:max]
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intValue(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
