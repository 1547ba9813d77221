// Package footballdata provides a resilient client for the
// football-data.org v4 REST API. All retry, backoff and rate-limit
// handling lives here; callers see either a parsed payload or a terminal
// error after the retry budget is spent.
package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/XavierBriggs/Hermes/pkg/contracts"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

const (
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 5
)

// Config holds configuration for the football-data client.
type Config struct {
	Token       string        // X-Auth-Token value
	BaseURL     string        // defaults to the public v4 base path
	Timeout     time.Duration // per-request timeout
	MaxAttempts int           // retry budget per call
}

// Client fetches JSON payloads from the football-data API with retry,
// backoff and rate-limit compliance. It holds no mutable state beyond the
// HTTP client and is safe for concurrent use.
type Client struct {
	token       string
	baseURL     string
	maxAttempts int
	httpClient  *http.Client

	// sleep and jitter are swapped out in tests to observe backoff.
	sleep  func(time.Duration)
	jitter func() float64
}

var _ contracts.FootballAPI = (*Client)(nil)

// NewClient creates a new football-data API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Client{
		token:       cfg.Token,
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sleep:  time.Sleep,
		jitter: rand.Float64,
	}
}

// Competitions retrieves the full competitions listing.
func (c *Client) Competitions(ctx context.Context) (models.Document, error) {
	return c.Get(ctx, "/competitions", nil)
}

// CompetitionMatches retrieves matches for one competition within an
// inclusive ISO-date window.
func (c *Client) CompetitionMatches(ctx context.Context, code, dateFrom, dateTo string) (models.Document, error) {
	params := url.Values{}
	params.Set("dateFrom", dateFrom)
	params.Set("dateTo", dateTo)
	return c.Get(ctx, fmt.Sprintf("/competitions/%s/matches", code), params)
}

// Get performs a GET against path with retry and backoff:
//   - 429: sleep the server's Retry-After seconds when numeric, otherwise
//     5 × attempt seconds, then retry
//   - 5xx: sleep 2^attempt plus sub-second jitter, then retry
//   - other non-2xx: terminal, no retry
//   - transport error: same exponential backoff as 5xx, then retry
func (c *Client) Get(ctx context.Context, path string, params url.Values) (models.Document, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			var doc models.Document
			if err := json.Unmarshal(body, &doc); err != nil {
				return nil, fmt.Errorf("parse response for %s: %w", path, err)
			}
			return doc, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err

		statusErr, ok := err.(*StatusError)
		switch {
		case ok && statusErr.StatusCode == http.StatusTooManyRequests:
			sleep := c.retryAfter(statusErr, attempt)
			log.Printf("[footballdata] 429 rate limited, sleeping %v (attempt %d/%d)", sleep, attempt, c.maxAttempts)
			c.sleep(sleep)
		case ok && statusErr.StatusCode >= 500:
			sleep := c.expBackoff(attempt)
			log.Printf("[footballdata] %d server error, sleeping %v (attempt %d/%d)", statusErr.StatusCode, sleep, attempt, c.maxAttempts)
			c.sleep(sleep)
		case ok:
			// Client error: retrying cannot change a deterministic rejection.
			return nil, err
		default:
			sleep := c.expBackoff(attempt)
			log.Printf("[footballdata] request failed: %v, sleeping %v (attempt %d/%d)", err, sleep, attempt, c.maxAttempts)
			c.sleep(sleep)
		}
	}

	return nil, fmt.Errorf("GET %s failed after %d attempts: %w", path, c.maxAttempts, lastErr)
}

// doRequest performs a single HTTP request.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	return body, nil
}

// retryAfter returns the 429 backoff: the server-supplied Retry-After when
// numeric, otherwise linear in the attempt count.
func (c *Client) retryAfter(err *StatusError, attempt int) time.Duration {
	if secs, convErr := strconv.Atoi(err.RetryAfter); convErr == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Duration(5*attempt) * time.Second
}

// expBackoff returns 2^attempt seconds plus sub-second jitter.
func (c *Client) expBackoff(attempt int) time.Duration {
	secs := float64(int64(1)<<uint(attempt)) + c.jitter()
	return time.Duration(secs * float64(time.Second))
}

// StatusError represents a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Message    string
	RetryAfter string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
