package ports

import (
	"context"

	"storefront-checkout/internal/features/delivery/domain"
)

// DeliveryService defines the primary port for delivery options.
// It always answers; remote failures degrade to a synthesized schedule.
type DeliveryService interface {
	Options(ctx context.Context) []domain.Option
}

// OptionsSource defines the secondary port to the remote delivery options endpoint.
type OptionsSource interface {
	FetchOptions(ctx context.Context) ([]domain.Option, error)
}
