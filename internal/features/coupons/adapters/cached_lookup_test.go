package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-checkout/internal/core/cache"
	"storefront-checkout/internal/features/coupons/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func setupCache(t *testing.T) (*miniredis.Miniredis, cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestCachedCouponLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesFoundCoupon", func(t *testing.T) {
		mr, c := setupCache(t)
		next := new(MockCouponLookup)
		coupon := &domain.Coupon{Code: "SAVE10", Type: domain.TypePercentage, Value: decimal.NewFromInt(10), IsActive: true}
		next.On("FindByCode", ctx, "SAVE10").Return(coupon, nil).Once()

		lookup := NewCachedCouponLookup(next, c, time.Minute)

		first, err := lookup.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		second, err := lookup.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)
		assert.True(t, first.Value.Equal(second.Value))
		assert.True(t, mr.Exists("test:coupon:SAVE10"))
		next.AssertExpectations(t)

		mr.FastForward(2 * time.Minute)
		assert.False(t, mr.Exists("test:coupon:SAVE10"))
	})

	t.Run("DoesNotCacheUnknownCode", func(t *testing.T) {
		mr, c := setupCache(t)
		next := new(MockCouponLookup)
		next.On("FindByCode", ctx, "NOPE").Return(nil, nil).Twice()

		lookup := NewCachedCouponLookup(next, c, time.Minute)
		for i := 0; i < 2; i++ {
			coupon, err := lookup.FindByCode(ctx, "NOPE")
			require.NoError(t, err)
			assert.Nil(t, coupon)
		}
		assert.False(t, mr.Exists("test:coupon:NOPE"))
		next.AssertExpectations(t)
	})

	t.Run("PropagatesLookupError", func(t *testing.T) {
		_, c := setupCache(t)
		next := new(MockCouponLookup)
		next.On("FindByCode", ctx, "SAVE10").Return(nil, errors.New("boom")).Once()

		_, err := NewCachedCouponLookup(next, c, time.Minute).FindByCode(ctx, "SAVE10")
		assert.Error(t, err)
	})

	t.Run("CacheDownFallsThrough", func(t *testing.T) {
		mr, c := setupCache(t)
		mr.SetError("LOADING server is loading")
		next := new(MockCouponLookup)
		next.On("FindByCode", ctx, "SAVE10").Return(&domain.Coupon{Code: "SAVE10"}, nil).Once()

		coupon, err := NewCachedCouponLookup(next, c, time.Minute).FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", coupon.Code)
	})
}
