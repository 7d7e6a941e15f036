package ports

import (
	"context"

	"storefront-checkout/internal/features/addresses/domain"
)

// AddressService defines the primary port for the shopper's address book.
type AddressService interface {
	List(ctx context.Context) ([]domain.Address, error)
	Get(ctx context.Context, id string) (*domain.Address, error)
	Create(ctx context.Context, address domain.Address) (*domain.Address, error)
	Update(ctx context.Context, id string, address domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, id string) error
}

// AddressGateway defines the secondary port to the address service.
type AddressGateway interface {
	List(ctx context.Context) ([]domain.Address, error)
	Create(ctx context.Context, address domain.Address) (*domain.Address, error)
	Update(ctx context.Context, id string, address domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, id string) error
}
