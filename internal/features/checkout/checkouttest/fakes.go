// Package checkouttest provides in-memory collaborators for exercising the checkout flow.
package checkouttest

import (
	"context"
	"errors"
	"sort"
	"sync"

	addresses "storefront-checkout/internal/features/addresses/domain"
	cart "storefront-checkout/internal/features/cart/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

// ErrUnknownProduct is returned by CartServer for products without a price.
var ErrUnknownProduct = errors.New("unknown product")

// CartServer is an in-memory cart service. It prices lines from its catalog
// and reports the whole cart after every mutation, like the real service.
type CartServer struct {
	mu       sync.Mutex
	prices   map[string]decimal.Decimal
	quantity map[string]int
	failures map[string]error
	calls    []string
}

// NewCartServer creates a CartServer selling the given products.
func NewCartServer(prices map[string]string) *CartServer {
	s := &CartServer{
		prices:   make(map[string]decimal.Decimal, len(prices)),
		quantity: make(map[string]int),
		failures: make(map[string]error),
	}
	for id, p := range prices {
		s.prices[id] = decimal.RequireFromString(p)
	}
	return s
}

// FailRemoval makes removals of productID fail with err.
func (s *CartServer) FailRemoval(productID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[productID] = err
}

// Seed puts quantity units of productID in the cart without recording a call.
func (s *CartServer) Seed(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantity[productID] = quantity
}

// Calls returns the operations received so far, e.g. "remove:p1".
func (s *CartServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// GetCart implements ports.CartGateway.
func (s *CartServer) GetCart(context.Context) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "get")
	return s.snapshot(), nil
}

// AddItem implements ports.CartGateway.
func (s *CartServer) AddItem(_ context.Context, productID string, quantity int) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "add:"+productID)
	if _, ok := s.prices[productID]; !ok {
		return nil, ErrUnknownProduct
	}
	s.quantity[productID] += quantity
	return s.snapshot(), nil
}

// UpdateQuantity implements ports.CartGateway.
func (s *CartServer) UpdateQuantity(_ context.Context, productID string, quantity int) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "update:"+productID)
	if _, ok := s.quantity[productID]; !ok {
		return nil, ErrUnknownProduct
	}
	s.quantity[productID] = quantity
	return s.snapshot(), nil
}

// RemoveItem implements ports.CartGateway.
func (s *CartServer) RemoveItem(_ context.Context, productID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "remove:"+productID)
	if err := s.failures[productID]; err != nil {
		return nil, err
	}
	delete(s.quantity, productID)
	return s.snapshot(), nil
}

func (s *CartServer) snapshot() *cart.Cart {
	ids := make([]string, 0, len(s.quantity))
	for id := range s.quantity {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := &cart.Cart{ID: "cart-1", Status: "ACTIVE", Items: []cart.CartItem{}, Subtotal: decimal.Zero}
	for _, id := range ids {
		qty := s.quantity[id]
		price := s.prices[id]
		out.Items = append(out.Items, cart.CartItem{
			ID:          "line-" + id,
			ProductID:   id,
			Quantity:    qty,
			Price:       price,
			ProductName: id,
		})
		out.Subtotal = out.Subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	out.Total = out.Subtotal
	return out
}

// CouponBook is an in-memory coupon lookup keyed by normalized code.
type CouponBook map[string]*coupons.Coupon

// FindByCode implements coupon ports.CouponLookup.
func (b CouponBook) FindByCode(_ context.Context, code string) (*coupons.Coupon, error) {
	if c, ok := b[code]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

// AddressBook is an in-memory address gateway.
type AddressBook struct {
	mu        sync.Mutex
	addresses []addresses.Address
}

// NewAddressBook creates an AddressBook holding list.
func NewAddressBook(list ...addresses.Address) *AddressBook {
	return &AddressBook{addresses: list}
}

// List implements address ports.AddressGateway.
func (b *AddressBook) List(context.Context) ([]addresses.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]addresses.Address(nil), b.addresses...), nil
}

// Create implements address ports.AddressGateway.
func (b *AddressBook) Create(_ context.Context, a addresses.Address) (*addresses.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addresses = append(b.addresses, a)
	return &a, nil
}

// Update implements address ports.AddressGateway.
func (b *AddressBook) Update(_ context.Context, id string, a addresses.Address) (*addresses.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			b.addresses[i] = a
			return &a, nil
		}
	}
	return nil, addresses.ErrAddressNotFound
}

// Delete implements address ports.AddressGateway.
func (b *AddressBook) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			b.addresses = append(b.addresses[:i], b.addresses[i+1:]...)
			return nil
		}
	}
	return addresses.ErrAddressNotFound
}
