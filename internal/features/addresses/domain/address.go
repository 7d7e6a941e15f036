package domain

import "errors"

// ErrAddressNotFound is returned when an address id is not in the shopper's book.
var ErrAddressNotFound = errors.New("address not found")

// Address is a shipping address from the shopper's address book.
type Address struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	Recipient  string `json:"recipient" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}
