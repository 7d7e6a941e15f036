package domain

import (
	"testing"

	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		subtotal string
		rate     string
		want     string
	}{
		{"100", "0.10", "10"},
		{"0", "0.10", "0"},
		{"19.99", "0.10", "2"},
		{"33.33", "0.21", "7"},
	}

	for _, tt := range tests {
		assertMoney(t, tt.want, CalculateTax(d(tt.subtotal), d(tt.rate)))
	}
}

func TestCalculateShipping(t *testing.T) {
	assertMoney(t, "0", CalculateShipping(delivery.TypeStandard))
	assertMoney(t, "9.99", CalculateShipping(delivery.TypeExpress))
	assertMoney(t, "0", CalculateShipping("drone"))
	assertMoney(t, "0", CalculateShipping(""))
}

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   *coupons.Coupon
		subtotal string
		want     string
	}{
		{"NoCoupon", nil, "100", "0"},
		{"Percentage", &coupons.Coupon{Type: coupons.TypePercentage, Value: d("10")}, "100", "10"},
		{"PercentageRounded", &coupons.Coupon{Type: coupons.TypePercentage, Value: d("15")}, "19.99", "3"},
		{"PercentageOver100", &coupons.Coupon{Type: coupons.TypePercentage, Value: d("150")}, "40", "40"},
		{"FixedBelowSubtotal", &coupons.Coupon{Type: coupons.TypeFixed, Value: d("5")}, "30", "5"},
		{"FixedCappedAtSubtotal", &coupons.Coupon{Type: coupons.TypeFixed, Value: d("50")}, "30", "30"},
		{"NegativeValue", &coupons.Coupon{Type: coupons.TypeFixed, Value: d("-5")}, "30", "0"},
		{"UnknownType", &coupons.Coupon{Type: "BOGO", Value: d("10")}, "100", "0"},
		{"ZeroSubtotal", &coupons.Coupon{Type: coupons.TypeFixed, Value: d("10")}, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDiscount(tt.coupon, d(tt.subtotal))
			assertMoney(t, tt.want, got)
			assert.True(t, got.LessThanOrEqual(d(tt.subtotal)) || d(tt.subtotal).IsZero())
		})
	}
}

func TestCalculateFinalTotal(t *testing.T) {
	assertMoney(t, "119.99", CalculateFinalTotal(d("100"), d("10"), d("9.99"), d("0")))
	assertMoney(t, "100", CalculateFinalTotal(d("100"), d("10"), d("0"), d("10")))
	assertMoney(t, "0", CalculateFinalTotal(d("10"), d("1"), d("0"), d("50")))
}

func TestEngine_Quote(t *testing.T) {
	engine := DefaultEngine()

	t.Run("PercentageExpress", func(t *testing.T) {
		coupon := &coupons.Coupon{Code: "SAVE10", Type: coupons.TypePercentage, Value: d("10")}
		b := engine.Quote(d("100"), delivery.TypeExpress, coupon)

		assertMoney(t, "100", b.Subtotal)
		assertMoney(t, "10", b.Tax)
		assertMoney(t, "9.99", b.Shipping)
		assertMoney(t, "10", b.Discount)
		assertMoney(t, "109.99", b.FinalTotal)
	})

	t.Run("FixedCapStandard", func(t *testing.T) {
		coupon := &coupons.Coupon{Type: coupons.TypeFixed, Value: d("50")}
		b := engine.Quote(d("30"), delivery.TypeStandard, coupon)

		assertMoney(t, "30", b.Discount)
		assertMoney(t, "3", b.FinalTotal)
	})

	t.Run("TotalIdentity", func(t *testing.T) {
		coupon := &coupons.Coupon{Type: coupons.TypePercentage, Value: d("12.5")}
		b := engine.Quote(d("87.35"), delivery.TypeExpress, coupon)

		assert.True(t, b.Subtotal.Add(b.Tax).Add(b.Shipping).Sub(b.Discount).Equal(b.FinalTotal))
	})

	t.Run("UnknownTypeChargedAsStandard", func(t *testing.T) {
		custom := NewEngine(d("0.10"), d("4.50"), d("12"))
		assertMoney(t, "4.50", custom.Shipping("drone"))
		assertMoney(t, "12", custom.Shipping(delivery.TypeExpress))
	})
}
