package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	GetFunc    func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles on each
	// further retry.
	Backoff time.Duration
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	if opts.Backoff == 0 {
		opts.Backoff = 100 * time.Millisecond
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}
}

// Get fetches path, retrying transport errors and 5xx responses up to
// MaxRetries times. The last response or error is returned.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	var fullURL string
	if c.baseURL == "" {
		fullURL = path // If no base URL, treat path as full URL
	} else {
		fullURL = c.baseURL + path // Otherwise combine them
	}

	delay := c.backoff
	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, fullURL)
		retryable := err != nil || resp.StatusCode >= http.StatusInternalServerError
		if !retryable || attempt >= c.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("GET %s: %w", fullURL, err)
			}
			return resp, nil
		}

		ev := log.Warn().Str("url", fullURL).Int("attempt", attempt+1).Dur("backoff", delay)
		if err != nil {
			ev = ev.Err(err)
		} else {
			ev = ev.Int("status", resp.StatusCode)
		}
		ev.Msg("Retrying request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (c *Client) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			return
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
