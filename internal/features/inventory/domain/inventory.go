package domain

import (
	"errors"
	"time"
)

// ErrInventoryNotFound is returned when a product has no stock record.
var ErrInventoryNotFound = errors.New("inventory not found")

// Inventory is the stock record of one product.
type Inventory struct {
	ProductID         string    `json:"product_id" validate:"required"`
	Quantity          int       `json:"quantity" validate:"gte=0"`
	ReservedQuantity  int       `json:"reserved_quantity" validate:"gte=0"`
	LowStockThreshold int       `json:"low_stock_threshold" validate:"gte=0"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// Available returns the units that can still be sold.
func (i Inventory) Available() int {
	if n := i.Quantity - i.ReservedQuantity; n > 0 {
		return n
	}
	return 0
}

// InStock reports whether at least one unit can be sold.
func (i Inventory) InStock() bool {
	return i.Available() > 0
}

// LowStock reports whether availability is at or under the threshold.
func (i Inventory) LowStock() bool {
	return i.LowStockThreshold > 0 && i.Available() <= i.LowStockThreshold
}
