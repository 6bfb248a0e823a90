package scraper

import "context"

// PageFetcher downloads the HTML profile page of a user
type PageFetcher interface {
	FetchProfilePage(ctx context.Context, username string) ([]byte, error)
}

// ProgressTracker is notified of each profile outcome
type ProgressTracker interface {
	Scraped(username string)
	Partial(username string)
	Failed(username string, err error)
}
