package service

import (
	"context"
	"errors"
	"testing"

	"storefront-checkout/internal/features/addresses/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAddressGateway is a mock implementation of ports.AddressGateway
type MockAddressGateway struct {
	mock.Mock
}

func (m *MockAddressGateway) List(ctx context.Context) ([]domain.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressGateway) Create(ctx context.Context, address domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressGateway) Update(ctx context.Context, id string, address domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, id, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressGateway) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestAddressService_Get(t *testing.T) {
	ctx := context.Background()
	gw := new(MockAddressGateway)
	svc := NewAddressService(gw)
	book := []domain.Address{{ID: "a1", City: "Bogotá"}, {ID: "a2", City: "Medellín"}}

	gw.On("List", ctx).Return(book, nil).Twice()

	addr, err := svc.Get(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "Medellín", addr.City)

	_, err = svc.Get(ctx, "a9")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)

	gw.On("List", ctx).Return(nil, errors.New("down")).Once()
	_, err = svc.Get(ctx, "a1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestAddressService_Mutations(t *testing.T) {
	ctx := context.Background()
	gw := new(MockAddressGateway)
	svc := NewAddressService(gw)

	in := domain.Address{Recipient: "Ana", Line1: "Calle 1", City: "Cali", PostalCode: "760001", Country: "CO"}
	gw.On("Create", ctx, in).Return(&domain.Address{ID: "a1", City: "Cali"}, nil).Once()
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "a1", created.ID)

	withID := in
	withID.ID = "a1"
	gw.On("Update", ctx, "a1", withID).Return(&withID, nil).Once()
	_, err = svc.Update(ctx, "a1", in)
	require.NoError(t, err)

	gw.On("Delete", ctx, "a1").Return(errors.New("boom")).Once()
	assert.Error(t, svc.Delete(ctx, "a1"))

	gw.AssertExpectations(t)
}
