package handler

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	addresses "storefront-checkout/internal/features/addresses/domain"
	"storefront-checkout/internal/features/checkout/domain"
	"storefront-checkout/internal/features/checkout/ports"
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"
	payments "storefront-checkout/internal/features/payments/domain"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutResolver returns the checkout of the session making the request.
type CheckoutResolver func(c *fiber.Ctx) (ports.CheckoutService, error)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	resolve  CheckoutResolver
	validate *validatorv10.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(resolve CheckoutResolver, validate *validatorv10.Validate) *CheckoutHandler {
	return &CheckoutHandler{
		resolve:  resolve,
		validate: validate,
	}
}

// SelectAddressRequest represents the request body for choosing a shipping address.
type SelectAddressRequest struct {
	AddressID string `json:"address_id" validate:"required"`
}

// SelectDeliveryTypeRequest represents the request body for choosing a delivery type.
type SelectDeliveryTypeRequest struct {
	Type delivery.Type `json:"type" validate:"required,oneof=standard express"`
}

// SelectDateRequest represents the request body for choosing a delivery date.
type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// SelectTimeSlotRequest represents the request body for choosing a time slot.
type SelectTimeSlotRequest struct {
	Slot string `json:"slot" validate:"required"`
}

// ApplyCouponRequest represents the request body for applying a coupon.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// ApplyCouponResponse carries the updated checkout and the coupon verdict.
type ApplyCouponResponse struct {
	Checkout domain.Session `json:"checkout"`
	Result   coupons.Result `json:"result"`
}

// PayRequest represents the request body for paying.
type PayRequest struct {
	Method payments.Method `json:"method" validate:"required,oneof=card cash_on_delivery"`
}

// Start handles POST /checkout.
// @Summary Start checkout
// @Description Starts a fresh checkout at the delivery step. The cart must not be empty.
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 201 {object} domain.Session
// @Failure 409 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	session, err := checkout.Start(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(session)
}

// Current handles GET /checkout.
// @Summary Get the checkout in progress
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 404 {object} server.ErrorResponse
// @Router /checkout [get]
func (h *CheckoutHandler) Current(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, checkout.Current)
}

// Abandon handles DELETE /checkout.
// @Summary Abandon checkout
// @Tags Checkout
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout [delete]
func (h *CheckoutHandler) Abandon(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := checkout.Abandon(); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SelectAddress handles PUT /checkout/address.
// @Summary Select the shipping address
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectAddressRequest true "Address id from the address book"
// @Success 200 {object} domain.Session
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/address [put]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req SelectAddressRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	session, err := checkout.SelectAddress(c.UserContext(), req.AddressID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// SelectDeliveryType handles PUT /checkout/delivery.
// @Summary Select the delivery type
// @Description Changing the type clears the selected date and time slot.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectDeliveryTypeRequest true "standard or express"
// @Success 200 {object} domain.Session
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/delivery [put]
func (h *CheckoutHandler) SelectDeliveryType(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req SelectDeliveryTypeRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	session, err := checkout.SelectDeliveryType(c.UserContext(), req.Type)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// SelectDate handles PUT /checkout/date.
// @Summary Select the delivery date
// @Description Changing the date clears the selected time slot.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectDateRequest true "Date as YYYY-MM-DD"
// @Success 200 {object} domain.Session
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/date [put]
func (h *CheckoutHandler) SelectDate(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req SelectDateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	session, err := checkout.SelectDate(c.UserContext(), req.Date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// SelectTimeSlot handles PUT /checkout/slot.
// @Summary Select the delivery time slot
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectTimeSlotRequest true "Slot label"
// @Success 200 {object} domain.Session
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/slot [put]
func (h *CheckoutHandler) SelectTimeSlot(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req SelectTimeSlotRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	session, err := checkout.SelectTimeSlot(c.UserContext(), req.Slot)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// ApplyCoupon handles POST /checkout/coupon.
// @Summary Apply a coupon
// @Description A rejected coupon is a 200 carrying the reason; the discount stays at zero.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body ApplyCouponRequest true "Coupon code"
// @Success 200 {object} ApplyCouponResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /checkout/coupon [post]
func (h *CheckoutHandler) ApplyCoupon(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req ApplyCouponRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	session, result, err := checkout.ApplyCoupon(c.UserContext(), req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ApplyCouponResponse{Checkout: session, Result: result})
}

// RemoveCoupon handles DELETE /checkout/coupon.
// @Summary Remove the coupon
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Session
// @Router /checkout/coupon [delete]
func (h *CheckoutHandler) RemoveCoupon(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, checkout.RemoveCoupon)
}

// ProceedToPayment handles POST /checkout/proceed.
// @Summary Continue to payment
// @Description Requires an address, a date and a time slot. The first one missing is reported.
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/proceed [post]
func (h *CheckoutHandler) ProceedToPayment(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, checkout.ProceedToPayment)
}

// BackToDelivery handles POST /checkout/back.
// @Summary Go back to delivery
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/back [post]
func (h *CheckoutHandler) BackToDelivery(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, checkout.BackToDelivery)
}

// Pay handles POST /checkout/pay.
// @Summary Pay and confirm the order
// @Description Charges the final total, clears the cart and returns the confirmation.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body PayRequest true "Payment method"
// @Success 200 {object} domain.Confirmation
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /checkout/pay [post]
func (h *CheckoutHandler) Pay(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	var req PayRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	confirmation, err := checkout.Pay(c.UserContext(), req.Method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(confirmation)
}

// Summary handles GET /checkout/summary.
// @Summary Get the priced checkout summary
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Summary
// @Failure 404 {object} server.ErrorResponse
// @Router /checkout/summary [get]
func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	checkout, err := h.resolve(c)
	if err != nil {
		return writeError(c, err)
	}

	summary, err := checkout.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

func respond(c *fiber.Ctx, fn func() (domain.Session, error)) error {
	session, err := fn()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

func writeError(c *fiber.Ctx, err error) error {
	var pe *domain.PreconditionError
	var se *domain.SelectionError
	var cre *domain.CouponRejectedError

	switch {
	case errors.As(err, &pe):
		return server.WriteError(c, http.StatusConflict, server.ErrorResponse{
			Message: "Please select a " + string(pe.Missing),
			Code:    "precondition_failed",
			Missing: string(pe.Missing),
		})
	case errors.As(err, &se):
		return server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{
			Message: se.Message,
			Code:    "selection_unavailable",
			Fields:  map[string]string{se.Field: se.Message},
		})
	case errors.As(err, &cre):
		return server.WriteError(c, http.StatusConflict, server.ErrorResponse{
			Message: cre.Error(),
			Code:    string(cre.Rejection.Reason),
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		return server.WriteError(c, http.StatusConflict, server.ErrorResponse{Message: err.Error(), Code: "invalid_transition"})
	case errors.Is(err, domain.ErrPaymentInProgress):
		return server.WriteError(c, http.StatusConflict, server.ErrorResponse{Message: err.Error(), Code: "payment_in_progress"})
	case errors.Is(err, domain.ErrEmptyCart):
		return server.WriteError(c, http.StatusUnprocessableEntity, server.ErrorResponse{Message: err.Error(), Code: "empty_cart"})
	case errors.Is(err, domain.ErrNotStarted):
		return server.WriteError(c, http.StatusNotFound, server.ErrorResponse{Message: err.Error(), Code: "checkout_not_started"})
	case errors.Is(err, payments.ErrUnsupportedMethod), errors.Is(err, payments.ErrInvalidAmount):
		return server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{Message: err.Error(), Code: "payment_rejected"})
	case errors.Is(err, addresses.ErrAddressNotFound):
		return server.WriteError(c, http.StatusNotFound, server.ErrorResponse{Message: err.Error(), Code: "address_not_found"})
	}
	return server.WriteUpstreamError(c, err)
}
