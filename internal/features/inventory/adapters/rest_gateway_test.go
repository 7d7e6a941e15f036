package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/inventory/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *RESTInventoryGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRESTInventoryGateway(httpclient.NewService("inventory", server.URL, server.Client()))
}

func TestRESTInventoryGateway_Get(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/inventory/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "/api/inventory/p1", r.URL.Path)
		w.Write([]byte(`{"productId":"p1","quantity":10,"reservedQuantity":4,"lowStockThreshold":2,"updatedAt":"2026-10-01T08:00:00Z"}`))
	})

	inv, err := gw.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, inv.Available())
	assert.Equal(t, 2026, inv.UpdatedAt.Year())

	_, err = gw.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestRESTInventoryGateway_Write(t *testing.T) {
	var methods []string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])
		w.Write([]byte(`{"productId":"p1","quantity":5}`))
	})
	ctx := context.Background()

	_, err := gw.Create(ctx, domain.Inventory{ProductID: "p1", Quantity: 5})
	require.NoError(t, err)
	_, err = gw.Update(ctx, "p1", domain.Inventory{Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /api/inventory", "PUT /api/inventory/p1"}, methods)
}
