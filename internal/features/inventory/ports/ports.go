package ports

import (
	"context"

	"storefront-checkout/internal/features/inventory/domain"
)

// InventoryGateway defines the secondary port to the inventory service.
// It doubles as the primary port since no logic sits between the two.
type InventoryGateway interface {
	Get(ctx context.Context, productID string) (*domain.Inventory, error)
	Create(ctx context.Context, inventory domain.Inventory) (*domain.Inventory, error)
	Update(ctx context.Context, productID string, inventory domain.Inventory) (*domain.Inventory, error)
}
