package adapters

import (
	"context"
	"net/http"
	"net/url"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/addresses/domain"
)

// RESTAddressGateway implements ports.AddressGateway against the address service.
// The address service is identity-bearing: its 401 responses end the session.
type RESTAddressGateway struct {
	service *httpclient.Service
}

// NewRESTAddressGateway creates a new RESTAddressGateway.
func NewRESTAddressGateway(service *httpclient.Service) *RESTAddressGateway {
	return &RESTAddressGateway{service: service.IdentityBearing()}
}

// List calls GET /api/addresses.
func (g *RESTAddressGateway) List(ctx context.Context) ([]domain.Address, error) {
	var wire []addressPayload
	if err := g.service.Do(ctx, http.MethodGet, "/api/addresses", nil, &wire); err != nil {
		return nil, err
	}

	addresses := make([]domain.Address, 0, len(wire))
	for _, a := range wire {
		addresses = append(addresses, a.toDomain())
	}
	return addresses, nil
}

// Create calls POST /api/addresses.
func (g *RESTAddressGateway) Create(ctx context.Context, address domain.Address) (*domain.Address, error) {
	var wire addressPayload
	if err := g.service.Do(ctx, http.MethodPost, "/api/addresses", fromDomain(address), &wire); err != nil {
		return nil, err
	}
	out := wire.toDomain()
	return &out, nil
}

// Update calls PUT /api/addresses/{id}.
func (g *RESTAddressGateway) Update(ctx context.Context, id string, address domain.Address) (*domain.Address, error) {
	var wire addressPayload
	if err := g.service.Do(ctx, http.MethodPut, "/api/addresses/"+url.PathEscape(id), fromDomain(address), &wire); err != nil {
		return nil, err
	}
	out := wire.toDomain()
	return &out, nil
}

// Delete calls DELETE /api/addresses/{id}.
func (g *RESTAddressGateway) Delete(ctx context.Context, id string) error {
	return g.service.Do(ctx, http.MethodDelete, "/api/addresses/"+url.PathEscape(id), nil, nil)
}

type addressPayload struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	Recipient  string `json:"recipientName"`
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phoneNumber,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}

func fromDomain(a domain.Address) addressPayload {
	return addressPayload(a)
}

func (p addressPayload) toDomain() domain.Address {
	return domain.Address(p)
}
