package service

import (
	"context"
	"fmt"
	"sync"

	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/features/cart/domain"
	"storefront-checkout/internal/features/cart/ports"

	"go.uber.org/zap"
)

// Store holds one shopper's cart snapshot and keeps it in step with the cart service.
// The snapshot is only ever replaced by a cart the server returned.
type Store struct {
	gateway ports.CartGateway
	log     *zap.Logger

	mu       sync.Mutex
	cart     domain.Cart
	inFlight map[string]struct{}
	closed   bool
}

// NewStore creates a Store with an empty snapshot.
func NewStore(gateway ports.CartGateway) *Store {
	return &Store{
		gateway:  gateway,
		log:      logger.Named("cart"),
		cart:     domain.EmptyCart(),
		inFlight: make(map[string]struct{}),
	}
}

// Load fetches the cart from the server and replaces the snapshot.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	if s.isClosed() {
		return domain.Cart{}, domain.ErrStoreClosed
	}

	cart, err := s.gateway.GetCart(ctx)
	if err != nil {
		return s.Snapshot(), fmt.Errorf("service: failed to load cart: %w", err)
	}
	return s.replace(cart), nil
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem adds quantity units of productID.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return domain.Cart{}, err
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.Cart{}, err
	}

	return s.mutate(ctx, productID, func(ctx context.Context, _ *domain.CartItem) (*domain.Cart, error) {
		return s.gateway.AddItem(ctx, productID, quantity)
	})
}

// UpdateQuantity sets the quantity of productID.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return domain.Cart{}, err
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.Cart{}, err
	}

	return s.mutate(ctx, productID, func(ctx context.Context, _ *domain.CartItem) (*domain.Cart, error) {
		return s.gateway.UpdateQuantity(ctx, productID, quantity)
	})
}

// Increment raises the quantity of a product already in the cart by one.
func (s *Store) Increment(ctx context.Context, productID string) (domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return domain.Cart{}, err
	}

	return s.mutate(ctx, productID, func(ctx context.Context, item *domain.CartItem) (*domain.Cart, error) {
		if item == nil {
			return nil, domain.ErrItemNotInCart
		}
		return s.gateway.UpdateQuantity(ctx, productID, item.Quantity+1)
	})
}

// Decrement lowers the quantity of a product by one. At quantity one the item is removed.
func (s *Store) Decrement(ctx context.Context, productID string) (domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return domain.Cart{}, err
	}

	return s.mutate(ctx, productID, func(ctx context.Context, item *domain.CartItem) (*domain.Cart, error) {
		if item == nil {
			return nil, domain.ErrItemNotInCart
		}
		if item.Quantity <= 1 {
			return s.gateway.RemoveItem(ctx, productID)
		}
		return s.gateway.UpdateQuantity(ctx, productID, item.Quantity-1)
	})
}

// RemoveItem removes productID from the cart.
func (s *Store) RemoveItem(ctx context.Context, productID string) (domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return domain.Cart{}, err
	}

	return s.mutate(ctx, productID, func(ctx context.Context, _ *domain.CartItem) (*domain.Cart, error) {
		return s.gateway.RemoveItem(ctx, productID)
	})
}

// Clear removes every item one at a time. A failed removal is logged and skipped.
// It returns the cart reported after the last successful removal and never fails
// because of a single item.
func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	if s.isClosed() {
		return domain.Cart{}, domain.ErrStoreClosed
	}

	snapshot := s.Snapshot()
	if snapshot.IsEmpty() {
		return snapshot, nil
	}

	for _, item := range snapshot.Items {
		if ctx.Err() != nil {
			return s.Snapshot(), ctx.Err()
		}

		if _, err := s.RemoveItem(ctx, item.ProductID); err != nil {
			s.log.Warn("Failed to remove item while clearing cart",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}

	return s.Snapshot(), nil
}

// Close ends the store. Responses that arrive afterwards are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cart = domain.EmptyCart()
}

// mutate runs call while productID is marked in flight.
// call receives the current line for productID, or nil when the cart does not hold it.
func (s *Store) mutate(ctx context.Context, productID string, call func(context.Context, *domain.CartItem) (*domain.Cart, error)) (domain.Cart, error) {
	item, err := s.acquire(productID)
	if err != nil {
		return s.Snapshot(), err
	}
	defer s.release(productID)

	cart, err := call(ctx, item)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.replace(cart), nil
}

func (s *Store) acquire(productID string) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	if _, busy := s.inFlight[productID]; busy {
		return nil, domain.ErrItemInFlight
	}
	s.inFlight[productID] = struct{}{}

	if item := s.cart.Item(productID); item != nil {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) release(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, productID)
}

// replace swaps in the server cart unless the store was closed meanwhile.
func (s *Store) replace(cart *domain.Cart) domain.Cart {
	next := domain.EmptyCart()
	if cart != nil {
		next = cart.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Debug("Discarding cart response for closed session")
		return next
	}
	s.cart = next
	return next.Clone()
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
