// Package httputil provides retry infrastructure for registry HTTP clients.
//
// Transient failures (network errors, 5xx responses, rate limits) are
// wrapped with [RetryableError] by the caller; [Retry] re-attempts those
// with exponential backoff and returns any other error immediately.
//
// Backoff starts at 100ms and doubles after each failed attempt
// (100ms, 200ms, 400ms, ...), with no jitter. A retry budget of n means
// up to n+1 total attempts.
package httputil
