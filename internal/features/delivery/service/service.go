package service

import (
	"context"
	"time"

	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/features/delivery/domain"
	"storefront-checkout/internal/features/delivery/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DeliveryServiceImpl implements ports.DeliveryService.
type DeliveryServiceImpl struct {
	source      ports.OptionsSource
	standardFee decimal.Decimal
	expressFee  decimal.Decimal
	now         func() time.Time
}

// NewDeliveryService creates a DeliveryServiceImpl. A nil source always yields the synthesized schedule.
func NewDeliveryService(source ports.OptionsSource, standardFee, expressFee decimal.Decimal) *DeliveryServiceImpl {
	return &DeliveryServiceImpl{
		source:      source,
		standardFee: standardFee,
		expressFee:  expressFee,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for the synthesized schedule.
func (s *DeliveryServiceImpl) WithClock(now func() time.Time) *DeliveryServiceImpl {
	s.now = now
	return s
}

// Options returns the remote options when available, else the synthesized ones.
// Remote entries with an unknown key are dropped. Prices always come from the fee schedule.
func (s *DeliveryServiceImpl) Options(ctx context.Context) []domain.Option {
	if s.source == nil {
		return s.fallback()
	}

	remote, err := s.source.FetchOptions(ctx)
	if err != nil {
		logger.Get().Warn("Delivery options unavailable, using synthesized schedule", zap.Error(err))
		return s.fallback()
	}

	options := make([]domain.Option, 0, len(remote))
	for _, o := range remote {
		if !o.Key.Valid() {
			logger.Get().Debug("Skipping unknown delivery option", zap.String("key", string(o.Key)))
			continue
		}
		o.Price = s.fee(o.Key)
		options = append(options, o)
	}

	if len(options) == 0 {
		logger.Get().Warn("Delivery service returned no usable options, using synthesized schedule")
		return s.fallback()
	}
	return options
}

func (s *DeliveryServiceImpl) fallback() []domain.Option {
	return domain.FallbackOptions(s.now(), s.standardFee, s.expressFee)
}

func (s *DeliveryServiceImpl) fee(key domain.Type) decimal.Decimal {
	if key == domain.TypeExpress {
		return s.expressFee
	}
	return s.standardFee
}
