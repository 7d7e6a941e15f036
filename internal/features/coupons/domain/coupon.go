package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the discount kind of a coupon.
type Type string

const (
	// TypePercentage discounts a percentage of the subtotal.
	TypePercentage Type = "PERCENTAGE"
	// TypeFixed discounts a fixed amount, capped at the subtotal.
	TypeFixed Type = "FIXED"
)

// Coupon is a discount code as stored by the coupon service.
// The checkout only reads it; usage counters are owned by the service.
type Coupon struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Type               Type            `json:"type"`
	Value              decimal.Decimal `json:"value"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount"`
	// MaxUsage is nil when the coupon has no usage cap.
	MaxUsage     *int `json:"max_usage,omitempty"`
	CurrentUsage int  `json:"current_usage"`
	// ValidFrom and ValidTo are inclusive; nil means the bound is open.
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// NormalizeCode trims and upper-cases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check applies the coupon's own rules against a subtotal at the given instant.
// Rules run in order and the first failure wins: active flag, validity window,
// minimum order amount, usage cap. It returns nil when the coupon is usable.
func (c *Coupon) Check(subtotal decimal.Decimal, now time.Time) *Rejection {
	if !c.IsActive {
		return NewRejection(ReasonInactive)
	}

	if (c.ValidFrom != nil && now.Before(*c.ValidFrom)) || (c.ValidTo != nil && now.After(*c.ValidTo)) {
		return NewRejection(ReasonExpiredOrNotYetValid)
	}

	if c.MinimumOrderAmount.IsPositive() && subtotal.LessThan(c.MinimumOrderAmount) {
		return &Rejection{
			Reason:  ReasonBelowMinimum,
			Message: fmt.Sprintf("A minimum order of %s is required for this coupon", c.MinimumOrderAmount.StringFixed(2)),
		}
	}

	if c.MaxUsage != nil && c.CurrentUsage >= *c.MaxUsage {
		return NewRejection(ReasonUsageLimitReached)
	}

	return nil
}
