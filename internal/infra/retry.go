package infra

import (
	"context"
	"errors"
	"time"
)

// ── Bounded retry ─────────────────────────────────────────────────────────────
// Transient store failures (connection blips, serialization conflicts) are
// retried a fixed number of times with doubling backoff before surfacing.
// Business-rule rejections must NOT be retried: wrap them in Permanent inside
// the retried function and Retry returns them immediately.

// RetryConfig holds tunable parameters.
type RetryConfig struct {
	Attempts int           // total attempts including the first (default: 3)
	Backoff  time.Duration // initial backoff, doubled after each failure (default: 50ms)
}

// DefaultRetryConfig returns sensible defaults for store operations.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Backoff: 50 * time.Millisecond}
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs fn up to cfg.Attempts times, sleeping between failures.
// It stops early on success, on a Permanent error (unwrapped before being
// returned), or when ctx is cancelled.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 50 * time.Millisecond
	}

	backoff := cfg.Backoff
	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err = fn()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
	}
	return err
}
