package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"igprofiler/pkg/errors"
	"igprofiler/pkg/logger"
)

// maxPageSize bounds how much of a profile page is read into memory
const maxPageSize = 16 << 20

// Client fetches public Instagram profile pages
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new profile page client. An empty baseURL means BaseURL.
func NewClient(timeout time.Duration, userAgent, baseURL string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL: baseURL,
		logger:  logger.OrNop(log),
	}
}

// ProfileURL returns the page URL the client requests for username
func (c *Client) ProfileURL(username string) string {
	return ProfileURL(c.baseURL, username)
}

// FetchProfilePage downloads the HTML profile page of username.
// Anything but a 200 response is returned as an *errors.Error.
func (c *Client) FetchProfilePage(ctx context.Context, username string) ([]byte, error) {
	url := c.ProfileURL(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: "failed to create request",
			Err:     err,
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	c.logger.DebugWithFields("fetched profile page", map[string]interface{}{
		"username": username,
		"bytes":    len(body),
	})

	return body, nil
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "request failed",
			Err:     err,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus accepts only 200 OK
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	errType := errors.TypeForStatus(resp.StatusCode)
	message := map[errors.ErrorType]string{
		errors.ErrorTypeNotFound:    "profile not found",
		errors.ErrorTypeRateLimit:   "rate limit exceeded",
		errors.ErrorTypeAuth:        "authentication required",
		errors.ErrorTypeServerError: "server error",
	}[errType]
	if message == "" {
		message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}

	return &errors.Error{
		Type:    errType,
		Message: message,
		Code:    resp.StatusCode,
	}
}
