// ABOUTME: HTTP client for the product-details version feed
// ABOUTME: One GET per call, no caching, no retries

package firefox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultVersionsURL is Mozilla's product-details feed of current Firefox
// versions.
const DefaultVersionsURL = "https://product-details.mozilla.org/1.0/firefox_versions.json"

// FetchObserver is notified once per upstream fetch. statusCode is zero when
// no response was received.
type FetchObserver interface {
	ObserveFetch(url string, statusCode int, duration time.Duration, err error)
}

// Client fetches the version document over HTTP. Nothing is cached and
// failures are not retried.
type Client struct {
	URL        string
	HTTPClient *http.Client
	Observer   FetchObserver
	UserAgent  string
}

// NewClient creates a client for url using httpClient. A nil httpClient
// selects http.DefaultClient.
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultVersionsURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		URL:        url,
		HTTPClient: httpClient,
		UserAgent:  "ffversion",
	}
}

// FetchVersionDocument performs one GET of the version document. Any failure
// is returned as an *UpstreamError.
func (c *Client) FetchVersionDocument(ctx context.Context) (*VersionDocument, error) {
	start := time.Now()
	doc, status, err := c.fetch(ctx)
	if c.Observer != nil {
		c.Observer.ObserveFetch(c.URL, status, time.Since(start), err)
	}
	return doc, err
}

func (c *Client) fetch(ctx context.Context) (*VersionDocument, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, 0, &UpstreamError{URL: c.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, &UpstreamError{URL: c.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, resp.StatusCode, &UpstreamError{
			URL:        c.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	doc, err := DecodeVersionDocument(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &UpstreamError{URL: c.URL, StatusCode: resp.StatusCode, Err: err}
	}
	return doc, resp.StatusCode, nil
}
