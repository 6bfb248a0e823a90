// Package scraper fetches Instagram profile pages and builds profile records.
//
// For each username the Scraper issues one GET for the public profile page,
// locates the embedded JSON payload and resolves it into a
// models.ProfileRecord with engagement statistics:
//
//	s := scraper.New(cfg, log, telemetry.New())
//
//	record := s.FetchProfile(ctx, "username")
//	switch {
//	case record == nil:
//	    // Page could not be fetched (network error or non-200 status)
//	case record.FollowersCount == nil:
//	    // Page fetched but no profile data found
//	}
//
// FetchAll runs a bounded worker pool over many usernames. Results arrive in
// completion order; callers needing a stable order must sort them.
//
// There are no retries: a failed request is final for that username and
// never affects the others.
package scraper
