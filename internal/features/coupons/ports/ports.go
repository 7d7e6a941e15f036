package ports

import (
	"context"

	"storefront-checkout/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

// CouponValidator defines the primary port for coupon checks.
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (domain.Result, error)
}

// CouponLookup defines the secondary port that resolves a normalized code.
// An unknown code returns nil, nil.
type CouponLookup interface {
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
}
