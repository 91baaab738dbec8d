// Package registry talks to the npm public registry HTTP APIs: full-text
// search, package metadata (packuments), and download counts.
//
// The package exposes raw wire responses; interpretation and scoring live
// in pkg/scanner. Transport concerns (per-attempt timeouts, bounded retry
// with exponential backoff, status mapping) are handled here.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkgpulse/pkgpulse/pkg/httputil"
	"github.com/pkgpulse/pkgpulse/pkg/observability"
)

const (
	// DefaultTimeout bounds each individual request attempt.
	DefaultTimeout = 5 * time.Second

	// DefaultRetries is the number of additional attempts after the
	// first failure (2 retries = up to 3 attempts).
	DefaultRetries = 2
)

var (
	// ErrNotFound is returned when a package or resource doesn't exist
	// in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (connection errors,
	// 5xx responses) once the retry budget is spent.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request attempt exceeds its timeout.
	// Timed-out requests are not retried.
	ErrTimeout = errors.New("request timed out")
)

// StatusError reports a non-2xx response that is not a plain 404.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client provides shared HTTP functionality for the registry endpoints.
// It applies default headers, a per-attempt timeout, and bounded retries
// with exponential backoff.
type Client struct {
	http    *http.Client
	timeout time.Duration
	retries int
	headers map[string]string
}

// NewClient creates a Client. Headers are applied to all requests and
// merged over the defaults (Accept: application/json plus the given
// User-Agent); pass nil if no extra headers are needed.
func NewClient(timeout time.Duration, retries int, userAgent string, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = 0
	}
	defaults := map[string]string{
		"Accept":     "application/json",
		"User-Agent": userAgent,
	}
	for k, v := range headers {
		defaults[k] = v
	}
	return &Client{
		// The attempt context carries the timeout; the http.Client
		// itself stays unbounded.
		http:    &http.Client{},
		timeout: timeout,
		retries: retries,
		headers: defaults,
	}
}

// Get performs an HTTP GET and JSON-decodes the response into v,
// retrying transient failures up to the configured budget.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, c.retries, func() error {
		var attemptErr error
		body, attemptErr = c.attempt(ctx, url)
		return attemptErr
	})
	return body, err
}

// attempt issues one GET with its own timeout. Connection failures and
// non-2xx statuses other than 404 come back wrapped as retryable; 404,
// timeouts, and parent-context cancellation are final.
func (c *Client) attempt(ctx context.Context, url string) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, url)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
			observability.HTTP().OnError(ctx, http.MethodGet, url, err)
			return nil, err
		}
		observability.HTTP().OnError(ctx, http.MethodGet, url, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		// Other non-2xx statuses are errors for this attempt but stay
		// eligible for retry.
		return httputil.Retryable(&StatusError{Code: code, Status: http.StatusText(code)})
	}
}
