package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRetryable = errors.New("retryable")

func retryOnSentinel(err error) bool { return errors.Is(err, errRetryable) }

func TestWithRetry_Success(t *testing.T) {
	attempts := 0
	result, err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, RetryIf: retryOnSentinel},
		func(attempt int) (string, error) {
			attempts++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_NoRetryOnNonMatchingError(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, RetryIf: retryOnSentinel},
		func(attempt int) (int, error) {
			attempts++
			return 0, &APIError{StatusCode: http.StatusBadRequest}
		})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_RetriesUntilSuccess(t *testing.T) {
	logger := newCaptureLogger()
	result, err := WithRetry(context.Background(),
		RetryConfig{MaxAttempts: 3, RetryIf: retryOnSentinel, Logger: logger.Logger},
		func(attempt int) (int, error) {
			if attempt < 3 {
				return 0, errRetryable
			}
			return attempt, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, result)
	assert.Contains(t, logger.output(), "retrying")
}

func TestWithRetry_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 2, RetryIf: retryOnSentinel},
		func(attempt int) (int, error) {
			attempts++
			return 0, errRetryable
		})

	require.ErrorIs(t, err, errRetryable)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ZeroAttemptsMeansOne(t *testing.T) {
	attempts := 0
	_, _ = WithRetry(context.Background(), RetryConfig{RetryIf: retryOnSentinel},
		func(attempt int) (int, error) {
			attempts++
			return 0, errRetryable
		})
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WithRetry(ctx, RetryConfig{
		MaxAttempts: 5,
		RetryIf:     retryOnSentinel,
		Backoff:     BackoffLinear,
		BaseDelay:   time.Second,
	}, func(attempt int) (int, error) {
		return 0, errRetryable
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled during backoff")
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, time.Duration(0), calculateBackoff(BackoffNone, base, 2))
	assert.Equal(t, base, calculateBackoff(BackoffLinear, base, 3))
	assert.Equal(t, base, calculateBackoff(BackoffExponential, base, 1))
	assert.Equal(t, 4*base, calculateBackoff(BackoffExponential, base, 3))
	assert.Equal(t, time.Duration(0), calculateBackoff("unknown", base, 1))
}
