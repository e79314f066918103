package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryCondition determines whether an error should trigger a retry.
type RetryCondition func(err error) bool

// BackoffStrategy determines the delay between retry attempts.
type BackoffStrategy string

const (
	// BackoffNone applies no delay between retries.
	BackoffNone BackoffStrategy = "none"
	// BackoffLinear applies a fixed delay between retries.
	BackoffLinear BackoffStrategy = "linear"
	// BackoffExponential doubles the delay after every attempt.
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryConfig configures WithRetry.
type RetryConfig struct {
	// MaxAttempts includes the first attempt. Values below 1 mean 1.
	MaxAttempts int

	// RetryIf decides whether an error is retried. Nil never retries.
	RetryIf RetryCondition

	Backoff BackoffStrategy

	// BaseDelay is the linear delay or the first exponential delay.
	// Default: 100ms
	BaseDelay time.Duration

	// Logger receives a warning per retried attempt. Optional.
	Logger *slog.Logger
}

// WithRetry calls fn until it succeeds, returns an error RetryIf rejects, or
// MaxAttempts is reached. fn receives the 1-indexed attempt number.
//
// Example:
//
//	cfg := httpapi.RetryConfig{
//	    MaxAttempts: 3,
//	    RetryIf:     client.IsVersionConflict,
//	    Backoff:     httpapi.BackoffExponential,
//	}
//	backend, err := httpapi.WithRetry(ctx, cfg, func(attempt int) (*models.Backend, error) {
//	    return c.CreateBackend(ctx, scope, backend)
//	})
func WithRetry[T any](ctx context.Context, config RetryConfig, fn func(attempt int) (T, error)) (T, error) {
	var zero T

	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BaseDelay == 0 {
		config.BaseDelay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("retry cancelled: %w", err)
		}

		result, err := fn(attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if config.RetryIf == nil || !config.RetryIf(err) || attempt >= config.MaxAttempts {
			return zero, err
		}

		if config.Logger != nil {
			config.Logger.Warn("Operation failed, retrying",
				"attempt", attempt,
				"max_attempts", config.MaxAttempts,
				"error", err.Error())
		}

		if delay := calculateBackoff(config.Backoff, config.BaseDelay, attempt); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, fmt.Errorf("retry cancelled during backoff: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}

func calculateBackoff(strategy BackoffStrategy, baseDelay time.Duration, attempt int) time.Duration {
	switch strategy {
	case BackoffLinear:
		return baseDelay
	case BackoffExponential:
		return baseDelay * time.Duration(1<<(attempt-1))
	default:
		return 0
	}
}
