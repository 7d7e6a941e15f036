package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-checkout/internal/core/validation"
	"storefront-checkout/internal/features/inventory/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInventoryGateway is a mock implementation of ports.InventoryGateway
type MockInventoryGateway struct {
	mock.Mock
}

func (m *MockInventoryGateway) Get(ctx context.Context, productID string) (*domain.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryGateway) Create(ctx context.Context, inventory domain.Inventory) (*domain.Inventory, error) {
	args := m.Called(ctx, inventory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryGateway) Update(ctx context.Context, productID string, inventory domain.Inventory) (*domain.Inventory, error) {
	args := m.Called(ctx, productID, inventory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func setupApp(gw *MockInventoryGateway) *fiber.App {
	app := fiber.New()
	h := NewInventoryHandler(gw, validation.New())
	app.Get("/inventory/:productId", h.GetInventory)
	app.Post("/inventory", h.CreateInventory)
	app.Put("/inventory/:productId", h.UpdateInventory)
	return app
}

func TestInventoryHandler_GetInventory(t *testing.T) {
	gw := new(MockInventoryGateway)
	gw.On("Get", mock.Anything, "p1").Return(&domain.Inventory{ProductID: "p1", Quantity: 3, ReservedQuantity: 1, LowStockThreshold: 5}, nil).Once()
	gw.On("Get", mock.Anything, "p2").Return(nil, domain.ErrInventoryNotFound).Once()
	app := setupApp(gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/inventory/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(2), out["available"])
	assert.Equal(t, true, out["low_stock"])
	assert.Equal(t, "p1", out["product_id"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/inventory/p2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventoryHandler_Write(t *testing.T) {
	gw := new(MockInventoryGateway)
	gw.On("Create", mock.Anything, mock.AnythingOfType("domain.Inventory")).Return(&domain.Inventory{ProductID: "p1", Quantity: 5}, nil).Once()
	gw.On("Update", mock.Anything, "p1", mock.AnythingOfType("domain.Inventory")).Return(&domain.Inventory{ProductID: "p1", Quantity: 8}, nil).Once()
	app := setupApp(gw)

	req := httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader(`{"product_id":"p1","quantity":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPut, "/inventory/p1", strings.NewReader(`{"quantity":8}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader(`{"product_id":"p1","quantity":-1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	gw.AssertExpectations(t)
}
