package ports

import (
	"context"

	"storefront-checkout/internal/features/payments/domain"
)

// Processor settles a charge.
type Processor interface {
	Process(ctx context.Context, charge domain.Charge) (*domain.Receipt, error)
}
