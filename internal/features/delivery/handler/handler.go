package handler

import (
	"storefront-checkout/internal/features/delivery/ports"

	"github.com/gofiber/fiber/v2"
)

// DeliveryHandler handles HTTP requests for delivery options.
type DeliveryHandler struct {
	service ports.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(service ports.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// GetOptions handles GET /delivery/options.
// @Summary List delivery options
// @Description Returns the delivery types with their dates and time slots.
// @Tags Delivery
// @Produce json
// @Success 200 {array} domain.Option
// @Router /delivery/options [get]
func (h *DeliveryHandler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(h.service.Options(c.UserContext()))
}
