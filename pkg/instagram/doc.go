// Package instagram fetches public Instagram profile pages.
//
// The client issues a single GET per call with a configurable timeout and
// User-Agent, and reports every non-200 response as a typed *errors.Error:
//
//	client := instagram.NewClient(10*time.Second, config.DefaultUserAgent, "", log)
//
//	page, err := client.FetchProfilePage(ctx, "username")
//	if err != nil {
//	    switch errors.TypeOf(err) {
//	    case errors.ErrorTypeNotFound:
//	        // Profile does not exist
//	    case errors.ErrorTypeRateLimit:
//	        // Too many requests
//	    }
//	}
//
// Username helpers (SanitizeUsername, IsValidUsername) normalize input lists.
package instagram
