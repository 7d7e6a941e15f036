package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"storefront-checkout/internal/core/logger"

	"go.uber.org/zap"
)

// RetryPolicy bounds how often a request is re-sent after a connection or timeout failure.
type RetryPolicy struct {
	// MaxAttempts is the hard cap on attempts, including the first one.
	MaxAttempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// AttemptTimeout bounds a single attempt. Zero means no per-attempt limit.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy is three attempts, half a second apart, thirty seconds each.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    3,
	Delay:          500 * time.Millisecond,
	AttemptTimeout: 30 * time.Second,
}

// RetryRoundTripper re-sends requests that failed before any response arrived.
// A response of any status, 4xx and 5xx included, is returned as-is.
type RetryRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute each attempt.
	Proxied http.RoundTripper
	// Policy is the retry policy.
	Policy RetryPolicy
}

// RoundTrip executes the request, retrying connection and timeout failures.
func (rt *RetryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := rt.Policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			// body already consumed and cannot be replayed
			break
		}

		attemptReq, cancel, err := rt.prepare(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := rt.Proxied.RoundTrip(attemptReq)
		if err == nil {
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}
		cancel()
		lastErr = err

		if req.Context().Err() != nil || !IsRetryable(err) || attempt == attempts {
			break
		}

		logger.Get().Warn("Retrying HTTP request",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)

		timer := time.NewTimer(rt.Policy.Delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// prepare clones the request for one attempt with its own deadline and a fresh body.
func (rt *RetryRoundTripper) prepare(req *http.Request, attempt int) (*http.Request, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(req.Context())
	if rt.Policy.AttemptTimeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(req.Context(), rt.Policy.AttemptTimeout)
	}

	attemptReq := req.Clone(ctx)
	if attempt > 1 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			cancel()
			return nil, nil, err
		}
		attemptReq.Body = body
	}
	return attemptReq, cancel, nil
}

// IsRetryable reports whether err is a connection or timeout failure, i.e. no response was received.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// cancelOnClose releases the attempt context once the caller is done with the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
