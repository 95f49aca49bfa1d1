// Package retry wraps remote operations with bounded attempts and linear
// backoff. Only transport-class failures (timeout, network, 5xx server
// responses) are retried; everything else propagates on first occurrence.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"
)

// Category is the failure classification reported to callers. Exactly one
// category accompanies every terminal failure.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryTimeout
	CategoryNetwork
	CategoryServer
)

// String returns the category label.
func (c Category) String() string {
	switch c {
	case CategoryTimeout:
		return "timeout"
	case CategoryNetwork:
		return "network"
	case CategoryServer:
		return "server"
	default:
		return "generic"
	}
}

type statusCoder interface {
	StatusCode() int
}

type timeouter interface {
	Timeout() bool
}

// Classify resolves an operation error to a failure category. Timeouts and
// deadline expiry map to timeout, net-level failures to network, 5xx
// responses to server; anything else is generic and not retried.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var hasTimeout timeouter
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return CategoryTimeout
	}

	// A zero status carries no signal; fall through to the network checks.
	var coder statusCoder
	if errors.As(err, &coder) && coder.StatusCode() != 0 {
		if coder.StatusCode() >= 500 {
			return CategoryServer
		}
		return CategoryGeneric
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return CategoryNetwork
	}

	return CategoryGeneric
}

// Retryable reports whether a category qualifies for another attempt.
func Retryable(c Category) bool {
	return c == CategoryTimeout || c == CategoryNetwork || c == CategoryServer
}

// Error is the terminal failure returned once all attempts are exhausted or
// a non-retryable error occurs.
type Error struct {
	Category Category
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error after %d attempt(s): %v", e.Category, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config controls attempt count, backoff and classification.
type Config struct {
	// MaxAttempts caps the number of invocations. Zero or negative means a
	// single attempt, i.e. no retry.
	MaxAttempts int
	// BaseDelay is the backoff unit; the wait before attempt n+1 is
	// BaseDelay multiplied by n. Defaults to one second.
	BaseDelay time.Duration
	// Classify overrides the default error classification.
	Classify func(error) Category
	// OnRetry is invoked before each backoff wait, typically for logging.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do runs op up to the configured number of attempts, waiting linearly
// longer between attempts. Success and terminal failure are mutually
// exclusive and reported exactly once.
func Do(ctx context.Context, cfg Config, op func(context.Context) error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	base := cfg.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	classify := cfg.Classify
	if classify == nil {
		classify = Classify
	}

	var lastErr error
	var lastCategory Category

	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		category := classify(err)
		lastErr, lastCategory = err, category

		if !Retryable(category) {
			return &Error{Category: category, Attempts: attempt, Err: err}
		}

		if attempt == attempts {
			break
		}

		delay := base * time.Duration(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &Error{Category: CategoryTimeout, Attempts: attempt, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return &Error{Category: lastCategory, Attempts: attempts, Err: lastErr}
}
