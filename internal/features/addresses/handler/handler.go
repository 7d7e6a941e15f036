package handler

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	"storefront-checkout/internal/features/addresses/domain"
	"storefront-checkout/internal/features/addresses/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service  ports.AddressService
	validate *validatorv10.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service ports.AddressService, validate *validatorv10.Validate) *AddressHandler {
	return &AddressHandler{service: service, validate: validate}
}

// ListAddresses handles GET /addresses.
// @Summary List addresses
// @Tags Addresses
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {array} domain.Address
// @Failure 401 {object} server.ErrorResponse
// @Router /addresses [get]
func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.List(c.UserContext())
	if err != nil {
		return server.WriteUpstreamError(c, err)
	}
	return c.JSON(addresses)
}

// CreateAddress handles POST /addresses.
// @Summary Create an address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param address body domain.Address true "Address"
// @Success 201 {object} domain.Address
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Router /addresses [post]
func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	var req domain.Address
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	created, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return server.WriteUpstreamError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(created)
}

// UpdateAddress handles PUT /addresses/:id.
// @Summary Update an address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param id path string true "Address ID"
// @Param address body domain.Address true "Address"
// @Success 200 {object} domain.Address
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /addresses/{id} [put]
func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	var req domain.Address
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	updated, err := h.service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

// DeleteAddress handles DELETE /addresses/:id.
// @Summary Delete an address
// @Tags Addresses
// @Param X-Session-ID header string true "Session ID"
// @Param id path string true "Address ID"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Router /addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrAddressNotFound) {
		return server.WriteError(c, http.StatusNotFound, server.ErrorResponse{Message: "Address not found"})
	}
	return server.WriteUpstreamError(c, err)
}
