// Package fetch implements the transport collaborator: a bounded-retry
// HTTP client that returns page text or an error after exhausting its
// attempts. Non-200 responses and transport errors are treated
// identically as retryable.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"

// Fetcher is the contract the orchestrator consumes: page text for a URL,
// or an error meaning "skip this URL".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor time.Duration
	UserAgent     string
	Headers       map[string]string
}

type Client struct {
	client        *http.Client
	maxRetries    int
	backoffFactor time.Duration
	userAgent     string
	headers       map[string]string
	logger        *slog.Logger
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries:    opts.MaxRetries,
		backoffFactor: opts.BackoffFactor,
		userAgent:     opts.UserAgent,
		headers:       opts.Headers,
		logger:        logger.With("component", "fetch"),
	}
}

// Fetch retrieves the page text for a URL, retrying up to the attempt
// ceiling with linear backoff (backoffFactor × attempt number).
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.logger.Warn("request failed", "url", url, "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < c.maxRetries && c.backoffFactor > 0 {
			select {
			case <-time.After(c.backoffFactor * time.Duration(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("failed to fetch %s after %d attempts: %w", url, c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
