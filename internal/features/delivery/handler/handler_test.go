package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-checkout/internal/features/delivery/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDeliveryService struct {
	options []domain.Option
}

func (s stubDeliveryService) Options(context.Context) []domain.Option {
	return s.options
}

func TestDeliveryHandler_GetOptions(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	svc := stubDeliveryService{options: domain.FallbackOptions(now, decimal.Zero, decimal.RequireFromString("9.99"))}

	app := fiber.New()
	app.Get("/delivery/options", NewDeliveryHandler(svc).GetOptions)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/delivery/options", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out []domain.Option
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, domain.TypeStandard, out[0].Key)
	assert.Equal(t, "9.99", out[1].Price.String())
}
