// Package engagement computes aggregate statistics over a profile's recent posts.
//
// Every function is total and side-effect free: an empty or unusable input
// yields nil instead of an error. All results are rounded to two decimals.
package engagement

import (
	"math"

	"igprofiler/pkg/models"
)

// Round2 rounds v to two decimal places, halves away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AverageLikes returns the mean like count, or nil for no posts
func AverageLikes(posts []models.PostMetrics) *float64 {
	if len(posts) == 0 {
		return nil
	}
	var total int64
	for _, p := range posts {
		total += p.Likes
	}
	return mean(total, len(posts))
}

// AverageComments returns the mean comment count, or nil for no posts
func AverageComments(posts []models.PostMetrics) *float64 {
	if len(posts) == 0 {
		return nil
	}
	var total int64
	for _, p := range posts {
		total += p.Comments
	}
	return mean(total, len(posts))
}

// AverageViews averages only the posts that carry a view count
func AverageViews(posts []models.PostMetrics) *float64 {
	var total int64
	n := 0
	for _, p := range posts {
		if p.Views == nil {
			continue
		}
		total += *p.Views
		n++
	}
	if n == 0 {
		return nil
	}
	return mean(total, n)
}

// Rate returns the engagement rate in percent:
//
//	100 * (likes + comments) / (followers * len(posts))
//
// It is nil when there are no posts or followers is absent or not positive.
func Rate(posts []models.PostMetrics, followers *int64) *float64 {
	if len(posts) == 0 || followers == nil || *followers <= 0 {
		return nil
	}
	var interactions int64
	for _, p := range posts {
		interactions += p.Likes + p.Comments
	}
	denominator := float64(*followers) * float64(len(posts))
	rate := Round2(100 * float64(interactions) / denominator)
	return &rate
}

func mean(total int64, n int) *float64 {
	v := Round2(float64(total) / float64(n))
	return &v
}
