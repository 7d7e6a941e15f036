package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, url string) *Service {
	t.Helper()
	client, err := NewClient(Options{Timeout: time.Second, Retry: RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}})
	require.NoError(t, err)
	return NewService("cart", url+"/", client)
}

func TestService_Do_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/items", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "p1", in["productId"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1"}`))
	}))
	defer ts.Close()

	svc := newTestService(t, ts.URL)
	ctx := WithBearerToken(context.Background(), "tok-123")

	var out struct {
		ID string `json:"id"`
	}
	err := svc.Do(ctx, http.MethodPost, "/api/cart/items", map[string]any{"productId": "p1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
}

func TestService_Do_NoTokenNoHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	err := newTestService(t, ts.URL).Do(context.Background(), http.MethodDelete, "/api/cart/items/p1", nil, &struct{}{})
	require.NoError(t, err)
}

func TestService_Do_APIErrorMessagePassedThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Quantity exceeds available stock"}`))
	}))
	defer ts.Close()

	err := newTestService(t, ts.URL).Do(context.Background(), http.MethodPut, "/api/cart/items", map[string]int{"quantity": 99}, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "cart", apiErr.Service)
	assert.Equal(t, "Quantity exceeds available stock", apiErr.Error())
}

func TestService_Do_APIErrorFallbackMessages(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{http.StatusForbidden, "You do not have permission to perform this action"},
		{http.StatusNotFound, "The requested resource was not found"},
		{http.StatusUnprocessableEntity, "The submitted data is invalid"},
		{http.StatusTooManyRequests, "Too many requests. Please try again later"},
		{http.StatusInternalServerError, "Server error. Please try again later"},
		{http.StatusBadGateway, "Request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			err := newTestService(t, ts.URL).Do(context.Background(), http.MethodGet, "/", nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestService_Do_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	t.Run("CartDoesNotForceLogin", func(t *testing.T) {
		err := newTestService(t, ts.URL).Do(context.Background(), http.MethodGet, "/api/cart", nil, nil)
		require.Error(t, err)
		assert.False(t, RequiresLogin(err))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.Unauthorized())
	})

	t.Run("IdentityBearingForcesLogin", func(t *testing.T) {
		err := newTestService(t, ts.URL).IdentityBearing().Do(context.Background(), http.MethodGet, "/api/addresses", nil, nil)
		require.Error(t, err)
		assert.True(t, RequiresLogin(err))
	})
}

func TestService_Do_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"cart not found"}`))
	}))
	defer ts.Close()

	err := newTestService(t, ts.URL).Do(context.Background(), http.MethodGet, "/api/cart", nil, nil)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "cart not found", err.Error())
}

func TestService_Do_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	err := newTestService(t, url).Do(context.Background(), http.MethodGet, "/api/cart", nil, nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Unable to reach the cart service", err.Error())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestService_Do_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	var out map[string]any
	err := newTestService(t, ts.URL).Do(context.Background(), http.MethodGet, "/api/cart", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode cart response")
}

func TestBearerToken(t *testing.T) {
	assert.Empty(t, BearerToken(context.Background()))
	assert.Equal(t, "abc", BearerToken(WithBearerToken(context.Background(), "abc")))
}
