package domain

import (
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"

	"github.com/shopspring/decimal"
)

var (
	// DefaultTaxRate is applied when no rate is configured.
	DefaultTaxRate = decimal.RequireFromString("0.10")
	// DefaultExpressFee is the express delivery fee when none is configured.
	DefaultExpressFee = decimal.RequireFromString("9.99")

	hundred = decimal.NewFromInt(100)
)

// Breakdown is a fully priced order.
// FinalTotal equals Subtotal + Tax + Shipping - Discount unless that would be negative.
type Breakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discount   decimal.Decimal `json:"discount"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// Engine prices orders with a fixed tax rate and shipping fee schedule.
type Engine struct {
	TaxRate      decimal.Decimal
	ShippingFees map[delivery.Type]decimal.Decimal
}

// NewEngine creates an Engine. Standard delivery costs standardFee, express costs expressFee.
func NewEngine(taxRate, standardFee, expressFee decimal.Decimal) *Engine {
	return &Engine{
		TaxRate: taxRate,
		ShippingFees: map[delivery.Type]decimal.Decimal{
			delivery.TypeStandard: standardFee,
			delivery.TypeExpress:  expressFee,
		},
	}
}

// DefaultEngine returns an Engine with a 10% tax rate, free standard and 9.99 express delivery.
func DefaultEngine() *Engine {
	return NewEngine(DefaultTaxRate, decimal.Zero, DefaultExpressFee)
}

// Shipping returns the fee for t. Unknown types are charged as standard.
func (e *Engine) Shipping(t delivery.Type) decimal.Decimal {
	if fee, ok := e.ShippingFees[t]; ok {
		return fee
	}
	return e.ShippingFees[delivery.TypeStandard]
}

// Quote prices subtotal for the given delivery type and optional coupon.
func (e *Engine) Quote(subtotal decimal.Decimal, t delivery.Type, coupon *coupons.Coupon) Breakdown {
	subtotal = subtotal.Round(2)
	tax := CalculateTax(subtotal, e.TaxRate)
	shipping := e.Shipping(t)
	discount := CalculateDiscount(coupon, subtotal)

	return Breakdown{
		Subtotal:   subtotal,
		TaxRate:    e.TaxRate,
		Tax:        tax,
		Shipping:   shipping,
		Discount:   discount,
		FinalTotal: CalculateFinalTotal(subtotal, tax, shipping, discount),
	}
}

// CalculateTax returns subtotal * rate rounded to cents.
func CalculateTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(2)
}

// CalculateShipping returns the default fee for t: standard is free, express is 9.99.
func CalculateShipping(t delivery.Type) decimal.Decimal {
	if t == delivery.TypeExpress {
		return DefaultExpressFee
	}
	return decimal.Zero
}

// CalculateDiscount returns the discount coupon grants on subtotal.
// The result is always within [0, subtotal]. Unknown coupon types grant nothing.
func CalculateDiscount(coupon *coupons.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case coupons.TypePercentage:
		discount = subtotal.Mul(coupon.Value).Div(hundred).Round(2)
	case coupons.TypeFixed:
		discount = decimal.Min(coupon.Value, subtotal)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// CalculateFinalTotal returns subtotal + tax + shipping - discount, never below zero.
func CalculateFinalTotal(subtotal, tax, shipping, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
