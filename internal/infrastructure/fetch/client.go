package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; RatingActionTracker/1.0)"
	defaultTimeout   = 20 * time.Second
	defaultRetries   = 2
)

// Options tunes the shared HTTP client.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Retries   int
}

// Client issues GET requests for feeds and pages.
type Client struct {
	http *resty.Client
}

// New builds a client; zero options fall back to defaults.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = defaultRetries
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/rss+xml, application/xml, text/html;q=0.9, */*;q=0.8").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{http: client}
}

// Get returns the body of url, failing on any non-200 status.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", url, resp.Status())
	}
	return resp.Body(), nil
}
