package adapters

import (
	"context"
	"net/http"
	"net/url"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/cart/domain"

	"github.com/shopspring/decimal"
)

// RESTCartGateway implements ports.CartGateway against the cart service.
type RESTCartGateway struct {
	service *httpclient.Service
}

// NewRESTCartGateway creates a new RESTCartGateway.
func NewRESTCartGateway(service *httpclient.Service) *RESTCartGateway {
	return &RESTCartGateway{service: service}
}

// GetCart calls GET /api/cart. A 404 means the shopper has no cart yet.
func (g *RESTCartGateway) GetCart(ctx context.Context) (*domain.Cart, error) {
	var wire cartResponse
	err := g.service.Do(ctx, http.MethodGet, "/api/cart", nil, &wire)
	if httpclient.IsNotFound(err) {
		empty := domain.EmptyCart()
		return &empty, nil
	}
	if err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// AddItem calls POST /api/cart/items.
func (g *RESTCartGateway) AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	return g.send(ctx, http.MethodPost, "/api/cart/items", itemRequest{ProductID: productID, Quantity: quantity})
}

// UpdateQuantity calls PUT /api/cart/items.
func (g *RESTCartGateway) UpdateQuantity(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	return g.send(ctx, http.MethodPut, "/api/cart/items", itemRequest{ProductID: productID, Quantity: quantity})
}

// RemoveItem calls DELETE /api/cart/items/{productId}.
func (g *RESTCartGateway) RemoveItem(ctx context.Context, productID string) (*domain.Cart, error) {
	return g.send(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID), nil)
}

func (g *RESTCartGateway) send(ctx context.Context, method, path string, in any) (*domain.Cart, error) {
	var wire cartResponse
	if err := g.service.Do(ctx, method, path, in, &wire); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// cartResponse is the cart service representation.
type cartResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	Items     []struct {
		ID          string          `json:"id"`
		ProductID   string          `json:"productId"`
		Quantity    int             `json:"quantity"`
		Price       decimal.Decimal `json:"price"`
		ProductName string          `json:"productName"`
		Category    string          `json:"category"`
	} `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

func (r cartResponse) toDomain() *domain.Cart {
	cart := &domain.Cart{
		ID:        r.ID,
		UserID:    r.UserID,
		SessionID: r.SessionID,
		Status:    r.Status,
		Items:     make([]domain.CartItem, 0, len(r.Items)),
		Subtotal:  r.Subtotal,
		Total:     r.Total,
	}

	for _, it := range r.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			ProductName: it.ProductName,
			Category:    it.Category,
		})
	}
	return cart
}
