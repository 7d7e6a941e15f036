package service

import (
	"context"
	"fmt"
	"time"

	"storefront-checkout/internal/features/coupons/domain"
	"storefront-checkout/internal/features/coupons/ports"

	"github.com/shopspring/decimal"
)

// Validator implements ports.CouponValidator.
type Validator struct {
	lookup ports.CouponLookup
	now    func() time.Time
}

// NewValidator creates a Validator that resolves codes through lookup.
func NewValidator(lookup ports.CouponLookup) *Validator {
	return &Validator{
		lookup: lookup,
		now:    time.Now,
	}
}

// WithClock replaces the validator clock.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate checks code against subtotal. Rejections are returned in the Result;
// the error is only set when the coupon service could not answer.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (domain.Result, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.Rejected(domain.NewRejection(domain.ReasonEmptyCode)), nil
	}

	coupon, err := v.lookup.FindByCode(ctx, code)
	if err != nil {
		return domain.Result{}, fmt.Errorf("service: failed to look up coupon: %w", err)
	}
	if coupon == nil {
		return domain.Rejected(domain.NewRejection(domain.ReasonNotFound)), nil
	}

	if rejection := coupon.Check(subtotal, v.now()); rejection != nil {
		return domain.Rejected(rejection), nil
	}

	return domain.Accepted(coupon), nil
}
