package adapters

import (
	"context"
	"time"

	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/features/payments/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulatedProcessor settles every valid charge after a fixed delay.
// No money moves; it stands in for a payment gateway.
type SimulatedProcessor struct {
	delay time.Duration
	now   func() time.Time
}

// NewSimulatedProcessor creates a SimulatedProcessor.
func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay, now: time.Now}
}

// Process waits for the configured delay, or until ctx is done.
func (p *SimulatedProcessor) Process(ctx context.Context, charge domain.Charge) (*domain.Receipt, error) {
	if err := charge.Validate(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	receipt := &domain.Receipt{
		Reference:   "PAY-" + uuid.NewString(),
		Method:      charge.Method,
		Amount:      charge.Amount,
		ProcessedAt: p.now().UTC(),
	}

	logger.Named("payments").Info("Payment settled",
		zap.String("reference", receipt.Reference),
		zap.String("method", string(receipt.Method)),
		zap.String("amount", receipt.Amount.StringFixed(2)),
	)
	return receipt, nil
}
