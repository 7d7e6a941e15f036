package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront-checkout/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// Options configures the client built by NewClient.
type Options struct {
	// Timeout bounds each attempt; an expired attempt counts as a retryable failure.
	Timeout time.Duration
	// Retry is the bounded retry policy for connection and timeout failures.
	Retry RetryPolicy
	// ProxyURL routes outbound requests through an egress proxy when set.
	ProxyURL string
}

// NewClient returns an http.Client with retry and logging middleware.
// Each attempt is logged; only the retry layer enforces the per-attempt timeout.
func NewClient(opts Options) (*http.Client, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		base.Proxy = http.ProxyURL(proxyURL)
	}

	policy := opts.Retry
	policy.AttemptTimeout = opts.Timeout

	return &http.Client{
		Transport: &RetryRoundTripper{
			Proxied: &LoggingRoundTripper{Proxied: base},
			Policy:  policy,
		},
	}, nil
}
