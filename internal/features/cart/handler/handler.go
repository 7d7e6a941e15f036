package handler

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	"storefront-checkout/internal/features/cart/domain"
	"storefront-checkout/internal/features/cart/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreResolver returns the cart of the session making the request.
type StoreResolver func(c *fiber.Ctx) (ports.CartService, error)

// CartHandler handles HTTP requests for the shopper's cart.
type CartHandler struct {
	resolve  StoreResolver
	validate *validatorv10.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(resolve StoreResolver, validate *validatorv10.Validate) *CartHandler {
	return &CartHandler{
		resolve:  resolve,
		validate: validate,
	}
}

// AddItemRequest represents the request body for adding a product.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// UpdateQuantityRequest represents the request body for setting a quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// GetCart handles GET /cart.
// @Summary Get the cart
// @Description Fetches the cart from the cart service and returns it.
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Cart
// @Failure 401 {object} server.ErrorResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := store.Load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// AddItem handles POST /cart/items.
// @Summary Add a product to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param item body AddItemRequest true "Product and quantity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req AddItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	cart, err := store.AddItem(c.UserContext(), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// UpdateQuantity handles PUT /cart/items/:productId.
// @Summary Set the quantity of a cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Param item body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateQuantityRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	cart, err := store.UpdateQuantity(c.UserContext(), c.Params("productId"), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// Increment handles POST /cart/items/:productId/increment.
// @Summary Add one unit of a cart line
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} domain.Cart
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/items/{productId}/increment [post]
func (h *CartHandler) Increment(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := store.Increment(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// Decrement handles POST /cart/items/:productId/decrement.
// @Summary Remove one unit of a cart line
// @Description At quantity one the line is removed from the cart.
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} domain.Cart
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/items/{productId}/decrement [post]
func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := store.Decrement(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// RemoveItem handles DELETE /cart/items/:productId.
// @Summary Remove a cart line
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} domain.Cart
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := store.RemoveItem(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// Clear handles DELETE /cart.
// @Summary Empty the cart
// @Description Removes every line one by one. Lines that fail to delete are skipped.
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Cart
// @Router /cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	store, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := store.Clear(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cart)
}

func writeError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		return server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{
			Message: ve.Message,
			Code:    "validation_failed",
			Fields:  map[string]string{ve.Field: ve.Message},
		})
	case errors.Is(err, domain.ErrItemInFlight):
		return server.WriteError(c, http.StatusConflict, server.ErrorResponse{Message: err.Error(), Code: "item_in_flight"})
	case errors.Is(err, domain.ErrItemNotInCart):
		return server.WriteError(c, http.StatusNotFound, server.ErrorResponse{Message: err.Error(), Code: "item_not_in_cart"})
	case errors.Is(err, domain.ErrStoreClosed):
		return server.WriteError(c, http.StatusUnauthorized, server.ErrorResponse{Message: err.Error(), Code: "no_session"})
	}
	return server.WriteUpstreamError(c, err)
}
