package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-checkout/internal/core/cache"
	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/features/coupons/domain"
	"storefront-checkout/internal/features/coupons/ports"

	"go.uber.org/zap"
)

// CachedCouponLookup caches found coupons for a short TTL.
// Unknown codes and failures are never cached.
type CachedCouponLookup struct {
	next  ports.CouponLookup
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedCouponLookup wraps next with a cache.
func NewCachedCouponLookup(next ports.CouponLookup, c cache.Cache, ttl time.Duration) *CachedCouponLookup {
	return &CachedCouponLookup{next: next, cache: c, ttl: ttl}
}

// FindByCode returns the cached coupon when present, else asks next and stores the result.
// Cache failures degrade to a direct lookup.
func (l *CachedCouponLookup) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	key := "coupon:" + code

	data, err := l.cache.Get(ctx, key)
	if err == nil {
		var coupon domain.Coupon
		if err := json.Unmarshal(data, &coupon); err == nil {
			return &coupon, nil
		}
		logger.Get().Warn("Discarding corrupt cached coupon", zap.String("code", code))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Get().Warn("Coupon cache unavailable", zap.Error(err))
	}

	coupon, err := l.next.FindByCode(ctx, code)
	if err != nil || coupon == nil {
		return coupon, err
	}

	if data, err := json.Marshal(coupon); err == nil {
		if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
			logger.Get().Warn("Failed to cache coupon", zap.String("code", code), zap.Error(err))
		}
	}

	return coupon, nil
}
