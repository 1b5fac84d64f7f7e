package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds configuration for fixed-delay retry operations.
//
// The delay between attempts is constant. Callers that need to exclude
// certain errors from retry supply a RetryableErrors predicate.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial attempt)
	MaxAttempts int

	// Delay is the fixed wait between attempts
	Delay time.Duration

	// RetryableErrors determines which errors should trigger a retry.
	// If nil, all errors are considered retryable.
	RetryableErrors func(error) bool
}

// DefaultRetryConfig returns a sensible default retry configuration.
//
// Default settings:
//   - MaxAttempts: 3 (initial attempt + 2 retries)
//   - Delay: 2 seconds between attempts
//   - RetryableErrors: all errors are retryable
//
// These defaults match the submission retry budget used elsewhere in the
// pipeline and work well for most external calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		RetryableErrors: func(err error) bool {
			return true
		},
	}
}

// Retry executes a function with fixed-delay retry.
//
// Attempts to execute the provided function up to MaxAttempts times,
// waiting config.Delay between attempts. Supports context cancellation
// and configurable error filtering.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - config: Retry configuration (attempts, delay, error filtering)
//   - fn: Function to execute (should return nil on success)
//
// Returns:
//   - nil if the function succeeds within the attempt limit
//   - "max retries exceeded" error wrapping the last failure if all attempts fail
//   - "retry cancelled" error if the context is cancelled between attempts
//   - The original error unwrapped if it is determined to be non-retryable
func Retry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err

			// Check if error is retryable
			if config.RetryableErrors != nil && !config.RetryableErrors(err) {
				return err
			}

			// Check if this was the last attempt
			if attempt == config.MaxAttempts {
				break
			}
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(config.Delay):
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
