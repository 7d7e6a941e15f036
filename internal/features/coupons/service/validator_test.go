package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-checkout/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponLookup is a mock implementation of ports.CouponLookup
type MockCouponLookup struct {
	mock.Mock
}

func (m *MockCouponLookup) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestValidator_Validate(t *testing.T) {
	ctx := context.Background()
	subtotal := decimal.NewFromInt(100)

	t.Run("EmptyCodeSkipsLookup", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		v := NewValidator(lookup)

		res, err := v.Validate(ctx, "   ", subtotal)
		require.NoError(t, err)
		require.NotNil(t, res.Rejection)
		assert.Equal(t, domain.ReasonEmptyCode, res.Rejection.Reason)
		lookup.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})

	t.Run("NormalizesCode", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		coupon := &domain.Coupon{Code: "SAVE10", Type: domain.TypePercentage, Value: decimal.NewFromInt(10), IsActive: true}
		lookup.On("FindByCode", ctx, "SAVE10").Return(coupon, nil).Once()

		res, err := NewValidator(lookup).WithClock(func() time.Time { return fixedNow }).Validate(ctx, " save10 ", subtotal)
		require.NoError(t, err)
		assert.True(t, res.Valid())
		assert.Equal(t, coupon, res.Coupon)
		lookup.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		lookup.On("FindByCode", ctx, "NOPE").Return(nil, nil).Once()

		res, err := NewValidator(lookup).Validate(ctx, "nope", subtotal)
		require.NoError(t, err)
		require.NotNil(t, res.Rejection)
		assert.Equal(t, domain.ReasonNotFound, res.Rejection.Reason)
		assert.Equal(t, "Invalid coupon code", res.Rejection.Message)
	})

	t.Run("Expired", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		validTo := fixedNow.Add(-time.Hour)
		lookup.On("FindByCode", ctx, "OLD").Return(&domain.Coupon{Code: "OLD", IsActive: true, ValidTo: &validTo}, nil).Once()

		res, err := NewValidator(lookup).WithClock(func() time.Time { return fixedNow }).Validate(ctx, "old", subtotal)
		require.NoError(t, err)
		require.NotNil(t, res.Rejection)
		assert.Equal(t, domain.ReasonExpiredOrNotYetValid, res.Rejection.Reason)
	})

	t.Run("LookupError", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		lookup.On("FindByCode", ctx, "SAVE10").Return(nil, errors.New("boom")).Once()

		res, err := NewValidator(lookup).Validate(ctx, "SAVE10", subtotal)
		assert.Error(t, err)
		assert.False(t, res.Valid())
		assert.Nil(t, res.Rejection)
	})

	t.Run("NeverMutatesUsage", func(t *testing.T) {
		lookup := new(MockCouponLookup)
		limit := 5
		coupon := &domain.Coupon{Code: "CAP", IsActive: true, MaxUsage: &limit, CurrentUsage: 4}
		lookup.On("FindByCode", ctx, "CAP").Return(coupon, nil).Twice()

		v := NewValidator(lookup)
		for i := 0; i < 2; i++ {
			res, err := v.Validate(ctx, "CAP", subtotal)
			require.NoError(t, err)
			assert.True(t, res.Valid())
		}
		assert.Equal(t, 4, coupon.CurrentUsage)
	})
}
