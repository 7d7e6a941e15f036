package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookup(t *testing.T, handler http.HandlerFunc) *RESTCouponLookup {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewRESTCouponLookup(httpclient.NewService("coupon", server.URL, server.Client()))
}

func TestRESTCouponLookup_FindByCode(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		lookup := newLookup(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/coupons/validate/SAVE10", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "c1",
				"code": "save10",
				"type": "PERCENTAGE",
				"value": 10,
				"minimumOrderAmount": "25.50",
				"maxUsage": 100,
				"currentUsage": 7,
				"validFrom": "2026-01-01T00:00:00Z",
				"validTo": null,
				"isActive": true
			}`))
		})

		ctx := httpclient.WithBearerToken(context.Background(), "tok")
		coupon, err := lookup.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		require.NotNil(t, coupon)

		assert.Equal(t, "SAVE10", coupon.Code)
		assert.Equal(t, domain.TypePercentage, coupon.Type)
		assert.Equal(t, "10", coupon.Value.String())
		assert.Equal(t, "25.5", coupon.MinimumOrderAmount.String())
		require.NotNil(t, coupon.MaxUsage)
		assert.Equal(t, 100, *coupon.MaxUsage)
		assert.Equal(t, 7, coupon.CurrentUsage)
		assert.NotNil(t, coupon.ValidFrom)
		assert.Nil(t, coupon.ValidTo)
		assert.True(t, coupon.IsActive)
	})

	t.Run("DateOnlyWindow", func(t *testing.T) {
		lookup := newLookup(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"code": "FALL",
				"type": "FIXED",
				"value": 5,
				"validFrom": "2026-10-01",
				"validTo": "2026-10-31",
				"isActive": true
			}`))
		})

		coupon, err := lookup.FindByCode(context.Background(), "FALL")
		require.NoError(t, err)
		require.NotNil(t, coupon)
		require.NotNil(t, coupon.ValidFrom)
		require.NotNil(t, coupon.ValidTo)

		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *coupon.ValidFrom)
		lastDay := time.Date(2026, 10, 31, 23, 59, 0, 0, time.UTC)
		assert.False(t, coupon.ValidTo.Before(lastDay), "validTo covers the whole last day")
		assert.True(t, coupon.ValidTo.Before(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))
		assert.Nil(t, coupon.Check(decimal.NewFromInt(30), lastDay))
		assert.NotNil(t, coupon.Check(decimal.NewFromInt(30), time.Date(2026, 11, 1, 0, 0, 1, 0, time.UTC)))
	})

	t.Run("InvalidDate", func(t *testing.T) {
		lookup := newLookup(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"code": "BAD", "validTo": "31/10/2026", "isActive": true}`))
		})

		_, err := lookup.FindByCode(context.Background(), "BAD")
		assert.Error(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		lookup := newLookup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		coupon, err := lookup.FindByCode(context.Background(), "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, coupon)
	})

	t.Run("ServerError", func(t *testing.T) {
		lookup := newLookup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"coupon db down"}`))
		})

		_, err := lookup.FindByCode(context.Background(), "SAVE10")
		var apiErr *httpclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "coupon db down", apiErr.Error())
	})
}
