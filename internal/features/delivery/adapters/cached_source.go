package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-checkout/internal/core/cache"
	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/features/delivery/domain"
	"storefront-checkout/internal/features/delivery/ports"

	"go.uber.org/zap"
)

const optionsCacheKey = "delivery:options"

// CachedOptionsSource caches the remote delivery schedule.
type CachedOptionsSource struct {
	next  ports.OptionsSource
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedOptionsSource wraps next with a cache.
func NewCachedOptionsSource(next ports.OptionsSource, c cache.Cache, ttl time.Duration) *CachedOptionsSource {
	return &CachedOptionsSource{next: next, cache: c, ttl: ttl}
}

// FetchOptions returns the cached schedule, refreshing it from next on a miss.
func (s *CachedOptionsSource) FetchOptions(ctx context.Context) ([]domain.Option, error) {
	data, err := s.cache.Get(ctx, optionsCacheKey)
	if err == nil {
		var options []domain.Option
		if err := json.Unmarshal(data, &options); err == nil {
			return options, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Get().Warn("Delivery cache unavailable", zap.Error(err))
	}

	options, err := s.next.FetchOptions(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(options); err == nil {
		if err := s.cache.Set(ctx, optionsCacheKey, data, s.ttl); err != nil {
			logger.Get().Warn("Failed to cache delivery options", zap.Error(err))
		}
	}
	return options, nil
}
