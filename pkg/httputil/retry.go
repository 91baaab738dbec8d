package httputil

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
)

// initialBackoff is the delay before the first retry. It doubles after
// each subsequent failure.
const initialBackoff = 100 * time.Millisecond

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network errors, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry executes fn with up to retries additional attempts after the
// first failure, waiting with exponential backoff between attempts.
//
// Only errors wrapped with [RetryableError] are retried; any other error
// is returned immediately. When the budget is exhausted the last error is
// returned. If ctx is cancelled during a backoff wait, ctx.Err() is
// returned.
func Retry(ctx context.Context, retries int, fn func() error) error {
	// WithMaxRetries(b, 0) means unlimited in backoff v2, so the
	// zero-budget path never enters the backoff loop at all.
	if retries <= 0 {
		return fn()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx))
	// Translate to ctx.Err() only when the context stopped the loop
	// mid-retry. Permanent errors keep their identity even if the
	// context happens to be done by the time they surface.
	if err != nil && IsRetryable(err) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
