package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedMethod is returned for a payment method the store does not accept.
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	// ErrInvalidAmount is returned when asked to charge a negative amount.
	ErrInvalidAmount = errors.New("payment amount must not be negative")
)

// Method is how the shopper pays.
type Method string

const (
	MethodCard           Method = "card"
	MethodCashOnDelivery Method = "cash_on_delivery"
)

// Valid reports whether m is an accepted method.
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodCashOnDelivery
}

// Charge is a request to collect an amount.
type Charge struct {
	Amount decimal.Decimal
	Method Method
}

// Validate checks the charge before it reaches a processor.
func (c Charge) Validate() error {
	if !c.Method.Valid() {
		return ErrUnsupportedMethod
	}
	if c.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Receipt is a settled payment.
type Receipt struct {
	Reference   string          `json:"reference"`
	Method      Method          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	ProcessedAt time.Time       `json:"processed_at"`
}
