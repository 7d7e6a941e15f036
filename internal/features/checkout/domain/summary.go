package domain

import (
	cart "storefront-checkout/internal/features/cart/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"
	pricing "storefront-checkout/internal/features/pricing/domain"
)

// Summary is the priced view of the cart for the current checkout selections.
type Summary struct {
	Items        []cart.CartItem   `json:"items"`
	DeliveryType delivery.Type     `json:"delivery_type"`
	CouponCode   string            `json:"coupon_code,omitempty"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
}

// SelectionError reports a delivery selection that the schedule does not offer.
type SelectionError struct {
	Field   string
	Message string
}

func (e *SelectionError) Error() string {
	return e.Message
}

// CouponRejectedError is returned when an applied coupon no longer holds at payment time.
type CouponRejectedError struct {
	Rejection *coupons.Rejection
}

func (e *CouponRejectedError) Error() string {
	return e.Rejection.Message
}
