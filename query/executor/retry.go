package executor

import (
	"context"
	"database/sql/driver"
	"errors"
	"math/rand/v2"
	"net"
	"strings"
	"time"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxAttempts   int           // Maximum number of attempts, including the first
	InitialDelay  time.Duration // Initial delay before first retry
	MaxDelay      time.Duration // Maximum delay between retries
	BackoffFactor float64       // Exponential backoff multiplier
	Jitter        bool          // Add randomness to delay

	// Retryable decides whether an error is worth another attempt. Nil
	// uses IsRetryable.
	Retryable func(error) bool
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// RetryOption allows customization of retry behavior
type RetryOption func(*RetryConfig)

// WithMaxAttempts sets the maximum attempts
func WithMaxAttempts(n int) RetryOption {
	return func(c *RetryConfig) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the initial retry delay
func WithInitialDelay(d time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum retry delay
func WithMaxDelay(d time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.MaxDelay = d
	}
}

// WithBackoffFactor sets the exponential backoff factor
func WithBackoffFactor(f float64) RetryOption {
	return func(c *RetryConfig) {
		c.BackoffFactor = f
	}
}

// WithJitter enables or disables delay jitter
func WithJitter(enabled bool) RetryOption {
	return func(c *RetryConfig) {
		c.Jitter = enabled
	}
}

// WithRetryable sets the retry classifier
func WithRetryable(fn func(error) bool) RetryOption {
	return func(c *RetryConfig) {
		c.Retryable = fn
	}
}

// Retry calls fn until it succeeds, fails with a non-retryable error, or
// attempts run out. The last error is returned as fn produced it.
func Retry(ctx context.Context, config *RetryConfig, fn func() error) error {
	retryable := config.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var err error
	delay := config.InitialDelay

	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || attempt >= config.MaxAttempts || !retryable(err) {
			return err
		}

		// Apply jitter if enabled
		wait := delay
		if config.Jitter && delay > 0 {
			// ±25%
			spread := delay / 4
			wait = delay - spread + time.Duration(rand.Int64N(int64(spread)*2+1))
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return err
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}
}

// RetryWithResult is Retry for functions returning a value.
func RetryWithResult[T any](ctx context.Context, config *RetryConfig, fn func() (T, error)) (T, error) {
	var result T
	err := Retry(ctx, config, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"too many connections",
	"deadlock",
	"database is locked",
	"could not serialize access",
	"server closed the connection",
}

// IsRetryable reports whether err looks transient: a bad connection, a
// network timeout, a lock conflict or a serialization failure. Context
// cancellation and deadlines are never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
