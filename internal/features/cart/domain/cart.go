package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrItemInFlight is returned when a mutation for the same product is already running.
	ErrItemInFlight = errors.New("an update for this item is already in progress")
	// ErrItemNotInCart is returned when a relative change targets a product the cart does not hold.
	ErrItemNotInCart = errors.New("item is not in the cart")
	// ErrStoreClosed is returned by a store whose session has ended.
	ErrStoreClosed = errors.New("cart session has ended")
)

// CartItem is a cart line as priced by the cart service.
type CartItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
}

// Cart is the server-held cart. Subtotal and Total are authoritative and never recomputed locally.
type Cart struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Status    string          `json:"status"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
}

// EmptyCart returns a cart with no items and zero totals.
func EmptyCart() Cart {
	return Cart{
		Status:   "ACTIVE",
		Items:    []CartItem{},
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Item returns the line for productID, or nil.
func (c Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Clone returns a copy that shares no item storage with c.
func (c Cart) Clone() Cart {
	out := c
	out.Items = append([]CartItem(nil), c.Items...)
	if out.Items == nil {
		out.Items = []CartItem{}
	}
	return out
}

// ValidationError reports a request rejected before reaching the cart service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateProductID checks that a product id is present.
func ValidateProductID(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return &ValidationError{Field: "product_id", Message: "product id is required"}
	}
	return nil
}

// ValidateQuantity checks that a quantity is at least one.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	return nil
}
