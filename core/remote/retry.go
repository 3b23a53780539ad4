package remote

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts, including the first
	InitialWait time.Duration // Doubled after every failed attempt
	MaxWait     time.Duration // Upper bound for a single wait
}

// IsRetryableError reports whether err is a transient API failure.
// Context cancellation is never retried.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}

// RetryWithBackoff executes operation until it succeeds, fails permanently or runs out of attempts.
// onRetry is called before every wait and may be nil.
func RetryWithBackoff[T any](ctx context.Context, cfg RetryConfig, operation func() (T, error), onRetry func(attempt int, wait time.Duration, err error)) (T, error) {
	var (
		result T
		err    error
	)

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	maxWait := cfg.MaxWait
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	wait := cfg.InitialWait

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = operation()
		if err == nil || !IsRetryableError(err) || attempt == attempts {
			return result, err
		}

		if onRetry != nil {
			onRetry(attempt, wait, err)
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}

		wait *= 2
		if wait > maxWait {
			wait = maxWait
		}
	}

	return result, err
}
