package discord

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds how often a transient failure is retried. Auth failures
// are never retried: hammering an unrecoverable path just burns the rate
// limit.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy retries twice after the initial attempt, with a capped
// exponential delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Delay returns the backoff before the given attempt (0-based). Doubles each
// attempt, capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay > p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// Retryable reports whether the error is worth another attempt. Only rate
// limits and upstream server errors qualify.
func Retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// Transport-level failure (connection reset, DNS); retryable.
		return err != nil
	}
	return apiErr.Kind == KindRateLimited || apiErr.Kind == KindServer
}

// Do runs fn up to MaxAttempts times, sleeping the policy delay between
// attempts. It stops early on success, on a non-retryable error, or when the
// context is cancelled.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.Delay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
	}
	return err
}
