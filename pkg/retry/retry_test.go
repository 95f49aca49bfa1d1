package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type statusError struct {
	status int
}

func (e *statusError) Error() string   { return "server said no" }
func (e *statusError) StatusCode() int { return e.status }

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "deadline passed" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestDoServerErrorExhaustsAttempts(t *testing.T) {
	invocations := 0
	var delays []time.Duration

	cfg := Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		OnRetry: func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		},
	}

	err := Do(context.Background(), cfg, func(context.Context) error {
		invocations++
		return &statusError{status: 502}
	})

	require.Equal(t, 3, invocations)

	var terminal *Error
	require.ErrorAs(t, err, &terminal)
	require.Equal(t, CategoryServer, terminal.Category)
	require.Equal(t, 3, terminal.Attempts)

	require.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func TestDoGenericErrorSingleInvocation(t *testing.T) {
	invocations := 0

	cfg := Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	err := Do(context.Background(), cfg, func(context.Context) error {
		invocations++
		return errors.New("months exceeds course duration")
	})

	require.Equal(t, 1, invocations)

	var terminal *Error
	require.ErrorAs(t, err, &terminal)
	require.Equal(t, CategoryGeneric, terminal.Category)
	require.Equal(t, 1, terminal.Attempts)
}

func TestDoSucceedsAfterTransientFailure(t *testing.T) {
	invocations := 0

	cfg := Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	err := Do(context.Background(), cfg, func(context.Context) error {
		invocations++
		if invocations < 2 {
			return &timeoutError{}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, invocations)
}

func TestDoDefaultsToSingleAttempt(t *testing.T) {
	invocations := 0

	err := Do(context.Background(), Config{BaseDelay: time.Millisecond}, func(context.Context) error {
		invocations++
		return &statusError{status: 503}
	})

	require.Equal(t, 1, invocations)

	var terminal *Error
	require.ErrorAs(t, err, &terminal)
	require.Equal(t, CategoryServer, terminal.Category)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	invocations := 0

	cfg := Config{MaxAttempts: 5, BaseDelay: time.Hour}
	errCh := make(chan error, 1)
	go func() {
		errCh <- Do(ctx, cfg, func(context.Context) error {
			invocations++
			return &timeoutError{}
		})
	}()

	cancel()

	select {
	case err := <-errCh:
		var terminal *Error
		require.ErrorAs(t, err, &terminal)
		require.Equal(t, CategoryTimeout, terminal.Category)
		require.Equal(t, 1, invocations)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}

type transportStub struct {
	status int
	err    error
}

func (e *transportStub) Error() string   { return "transport failed" }
func (e *transportStub) Unwrap() error   { return e.err }
func (e *transportStub) Timeout() bool   { return false }
func (e *transportStub) StatusCode() int { return e.status }

func TestClassifyZeroStatusFallsThroughToNetwork(t *testing.T) {
	// An error exposing StatusCode() 0 carries no HTTP signal; the wrapped
	// network failure must still classify as retryable.
	wrapped := &transportStub{err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}
	require.Equal(t, CategoryNetwork, Classify(wrapped))
	require.True(t, Retryable(Classify(wrapped)))

	require.Equal(t, CategoryServer, Classify(&transportStub{status: 503}))
}

func TestClassify(t *testing.T) {
	require.Equal(t, CategoryTimeout, Classify(context.DeadlineExceeded))
	require.Equal(t, CategoryTimeout, Classify(&timeoutError{}))
	require.Equal(t, CategoryServer, Classify(&statusError{status: 500}))
	require.Equal(t, CategoryGeneric, Classify(&statusError{status: 404}))
	require.Equal(t, CategoryNetwork, Classify(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	require.Equal(t, CategoryNetwork, Classify(io.ErrUnexpectedEOF))
	require.Equal(t, CategoryGeneric, Classify(errors.New("validation failed")))
}
