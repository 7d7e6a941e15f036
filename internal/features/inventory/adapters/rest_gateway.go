package adapters

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/inventory/domain"
)

// RESTInventoryGateway implements ports.InventoryGateway against the inventory service.
type RESTInventoryGateway struct {
	service *httpclient.Service
}

// NewRESTInventoryGateway creates a new RESTInventoryGateway.
func NewRESTInventoryGateway(service *httpclient.Service) *RESTInventoryGateway {
	return &RESTInventoryGateway{service: service}
}

// Get calls GET /api/inventory/{productId}.
func (g *RESTInventoryGateway) Get(ctx context.Context, productID string) (*domain.Inventory, error) {
	var wire inventoryPayload
	err := g.service.Do(ctx, http.MethodGet, "/api/inventory/"+url.PathEscape(productID), nil, &wire)
	if httpclient.IsNotFound(err) {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	out := wire.toDomain()
	return &out, nil
}

// Create calls POST /api/inventory.
func (g *RESTInventoryGateway) Create(ctx context.Context, inventory domain.Inventory) (*domain.Inventory, error) {
	var wire inventoryPayload
	if err := g.service.Do(ctx, http.MethodPost, "/api/inventory", inventoryPayload(inventory), &wire); err != nil {
		return nil, err
	}
	out := wire.toDomain()
	return &out, nil
}

// Update calls PUT /api/inventory/{productId}.
func (g *RESTInventoryGateway) Update(ctx context.Context, productID string, inventory domain.Inventory) (*domain.Inventory, error) {
	inventory.ProductID = productID
	var wire inventoryPayload
	err := g.service.Do(ctx, http.MethodPut, "/api/inventory/"+url.PathEscape(productID), inventoryPayload(inventory), &wire)
	if httpclient.IsNotFound(err) {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	out := wire.toDomain()
	return &out, nil
}

type inventoryPayload struct {
	ProductID         string    `json:"productId"`
	Quantity          int       `json:"quantity"`
	ReservedQuantity  int       `json:"reservedQuantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	UpdatedAt         time.Time `json:"updatedAt,omitempty"`
}

func (p inventoryPayload) toDomain() domain.Inventory {
	return domain.Inventory(p)
}
