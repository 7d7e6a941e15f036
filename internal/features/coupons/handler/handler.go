package handler

import (
	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	"storefront-checkout/internal/features/coupons/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CouponHandler handles HTTP requests for coupon checks.
type CouponHandler struct {
	validator ports.CouponValidator
	validate  *validatorv10.Validate
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(validator ports.CouponValidator, validate *validatorv10.Validate) *CouponHandler {
	return &CouponHandler{
		validator: validator,
		validate:  validate,
	}
}

// ValidateCouponRequest represents the request body for checking a coupon.
type ValidateCouponRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"gte=0"`
}

// ValidateCoupon handles POST /coupons/validate.
// @Summary Validate a coupon code
// @Description Checks a coupon code against a subtotal without applying it. A rejection is a 200 with a reason.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body ValidateCouponRequest true "Code and subtotal"
// @Success 200 {object} domain.Result
// @Failure 400 {object} server.ErrorResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req ValidateCouponRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return nil
	}

	result, err := h.validator.Validate(c.UserContext(), req.Code, req.Subtotal)
	if err != nil {
		return server.WriteUpstreamError(c, err)
	}

	return c.JSON(result)
}
