package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-checkout/internal/core/config"
	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg)

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}

func TestWriteUpstreamError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		status        int
		message       string
		loginRequired bool
	}{
		{
			name:    "APIErrorPassThrough",
			err:     &httpclient.APIError{Service: "cart", Status: http.StatusUnprocessableEntity, Message: "Out of stock"},
			status:  http.StatusUnprocessableEntity,
			message: "Out of stock",
		},
		{
			name:    "APIErrorFallback",
			err:     &httpclient.APIError{Service: "cart", Status: http.StatusTooManyRequests},
			status:  http.StatusTooManyRequests,
			message: "Too many requests. Please try again later",
		},
		{
			name:    "NetworkError",
			err:     &httpclient.NetworkError{Service: "coupon", Err: errors.New("dial tcp: refused")},
			status:  http.StatusServiceUnavailable,
			message: "Unable to reach the coupon service",
		},
		{
			name:    "Unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return WriteUpstreamError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "unknown", body.RayID)
			assert.Equal(t, tt.loginRequired, body.LoginRequired)
		})
	}
}
