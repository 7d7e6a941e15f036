package handler

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	"storefront-checkout/internal/features/inventory/domain"
	"storefront-checkout/internal/features/inventory/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InventoryHandler handles HTTP requests for stock levels.
type InventoryHandler struct {
	gateway  ports.InventoryGateway
	validate *validatorv10.Validate
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(gateway ports.InventoryGateway, validate *validatorv10.Validate) *InventoryHandler {
	return &InventoryHandler{gateway: gateway, validate: validate}
}

// InventoryResponse is a stock record with its derived availability.
type InventoryResponse struct {
	domain.Inventory
	Available int  `json:"available"`
	InStock   bool `json:"in_stock"`
	LowStock  bool `json:"low_stock"`
}

func toResponse(inv *domain.Inventory) InventoryResponse {
	return InventoryResponse{
		Inventory: *inv,
		Available: inv.Available(),
		InStock:   inv.InStock(),
		LowStock:  inv.LowStock(),
	}
}

// GetInventory handles GET /inventory/:productId.
// @Summary Get stock for a product
// @Tags Inventory
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} InventoryResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /inventory/{productId} [get]
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	inv, err := h.gateway.Get(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toResponse(inv))
}

// CreateInventory handles POST /inventory.
// @Summary Create a stock record
// @Tags Inventory
// @Accept json
// @Produce json
// @Param inventory body domain.Inventory true "Stock record"
// @Success 201 {object} InventoryResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /inventory [post]
func (h *InventoryHandler) CreateInventory(c *fiber.Ctx) error {
	var req domain.Inventory
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	inv, err := h.gateway.Create(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(inv))
}

// UpdateInventory handles PUT /inventory/:productId.
// @Summary Update a stock record
// @Tags Inventory
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param inventory body domain.Inventory true "Stock record"
// @Success 200 {object} InventoryResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /inventory/{productId} [put]
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	var req domain.Inventory
	req.ProductID = c.Params("productId")
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	inv, err := h.gateway.Update(c.UserContext(), c.Params("productId"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toResponse(inv))
}

func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInventoryNotFound) {
		return server.WriteError(c, http.StatusNotFound, server.ErrorResponse{Message: "No stock record for this product"})
	}
	return server.WriteUpstreamError(c, err)
}
