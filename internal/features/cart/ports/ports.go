package ports

import (
	"context"

	"storefront-checkout/internal/features/cart/domain"
)

// CartService defines the primary port for one shopper's cart.
type CartService interface {
	Load(ctx context.Context) (domain.Cart, error)
	Snapshot() domain.Cart
	AddItem(ctx context.Context, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error)
	Increment(ctx context.Context, productID string) (domain.Cart, error)
	Decrement(ctx context.Context, productID string) (domain.Cart, error)
	RemoveItem(ctx context.Context, productID string) (domain.Cart, error)
	Clear(ctx context.Context) (domain.Cart, error)
}

// CartGateway defines the secondary port to the remote cart service.
// Every mutation returns the full cart as the server sees it afterwards.
type CartGateway interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, productID string) (*domain.Cart, error)
}
