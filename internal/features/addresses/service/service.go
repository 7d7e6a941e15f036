package service

import (
	"context"
	"fmt"

	"storefront-checkout/internal/features/addresses/domain"
	"storefront-checkout/internal/features/addresses/ports"
)

// AddressServiceImpl implements ports.AddressService.
type AddressServiceImpl struct {
	gateway ports.AddressGateway
}

// NewAddressService creates a new AddressServiceImpl.
func NewAddressService(gateway ports.AddressGateway) *AddressServiceImpl {
	return &AddressServiceImpl{gateway: gateway}
}

// List returns the shopper's addresses.
func (s *AddressServiceImpl) List(ctx context.Context) ([]domain.Address, error) {
	addresses, err := s.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Get resolves id against the address book.
func (s *AddressServiceImpl) Get(ctx context.Context, id string) (*domain.Address, error) {
	addresses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range addresses {
		if addresses[i].ID == id {
			return &addresses[i], nil
		}
	}
	return nil, domain.ErrAddressNotFound
}

// Create adds an address.
func (s *AddressServiceImpl) Create(ctx context.Context, address domain.Address) (*domain.Address, error) {
	created, err := s.gateway.Create(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create address: %w", err)
	}
	return created, nil
}

// Update replaces the address with the given id.
func (s *AddressServiceImpl) Update(ctx context.Context, id string, address domain.Address) (*domain.Address, error) {
	address.ID = id
	updated, err := s.gateway.Update(ctx, id, address)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update address: %w", err)
	}
	return updated, nil
}

// Delete removes the address with the given id.
func (s *AddressServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete address: %w", err)
	}
	return nil
}
