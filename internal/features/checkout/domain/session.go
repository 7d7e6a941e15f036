package domain

import (
	"errors"
	"time"

	addresses "storefront-checkout/internal/features/addresses/domain"
	cart "storefront-checkout/internal/features/cart/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"
	payments "storefront-checkout/internal/features/payments/domain"
	pricing "storefront-checkout/internal/features/pricing/domain"

	"github.com/shopspring/decimal"
)

// Step is a checkout stage.
type Step string

const (
	StepDelivery     Step = "delivery"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed at the current step.
	ErrInvalidTransition = errors.New("this action is not available at the current checkout step")
	// ErrPaymentInProgress is returned while a payment is being processed.
	ErrPaymentInProgress = errors.New("a payment is already being processed")
	// ErrEmptyCart is returned when checking out a cart without items.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrNotStarted is returned when no checkout is in progress.
	ErrNotStarted = errors.New("checkout has not been started")
)

// Precondition names a selection required to leave the delivery step.
type Precondition string

const (
	MissingAddress  Precondition = "address"
	MissingDate     Precondition = "delivery date"
	MissingTimeSlot Precondition = "time slot"
)

// PreconditionError reports the first unmet requirement of a transition.
type PreconditionError struct {
	Missing Precondition
}

func (e *PreconditionError) Error() string {
	return "please select a " + string(e.Missing)
}

// Confirmation is the record shown after a successful payment.
// The breakdown is captured before the cart is cleared.
type Confirmation struct {
	OrderReference string            `json:"order_reference"`
	Receipt        payments.Receipt  `json:"receipt"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	Items          []cart.CartItem   `json:"items"`
	Address        addresses.Address `json:"address"`
	DeliveryType   delivery.Type     `json:"delivery_type"`
	DeliveryDate   string            `json:"delivery_date"`
	TimeSlot       string            `json:"time_slot"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	ConfirmedAt    time.Time         `json:"confirmed_at"`
}

// Session is one shopper's checkout in progress. It lives in memory only.
type Session struct {
	ID               string             `json:"id"`
	Step             Step               `json:"step"`
	Processing       bool               `json:"processing"`
	Address          *addresses.Address `json:"address,omitempty"`
	DeliveryType     delivery.Type      `json:"delivery_type"`
	SelectedDate     string             `json:"selected_date,omitempty"`
	SelectedTimeSlot string             `json:"selected_time_slot,omitempty"`
	AppliedCoupon    *coupons.Coupon    `json:"applied_coupon,omitempty"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	CouponRejection  *coupons.Rejection `json:"coupon_rejection,omitempty"`
	Confirmation     *Confirmation      `json:"confirmation,omitempty"`
}

// NewSession starts a checkout at the delivery step with standard delivery.
func NewSession(id string) *Session {
	return &Session{
		ID:             id,
		Step:           StepDelivery,
		DeliveryType:   delivery.TypeStandard,
		DiscountAmount: decimal.Zero,
	}
}

// editable reports whether delivery selections may still change.
func (s *Session) editable() error {
	if s.Processing {
		return ErrPaymentInProgress
	}
	if s.Step != StepDelivery {
		return ErrInvalidTransition
	}
	return nil
}

// SelectAddress sets the shipping address.
func (s *Session) SelectAddress(address addresses.Address) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.Address = &address
	return nil
}

// SelectDeliveryType sets the delivery type. A different type clears the date and time slot.
func (s *Session) SelectDeliveryType(t delivery.Type) error {
	if err := s.editable(); err != nil {
		return err
	}
	if t != s.DeliveryType {
		s.SelectedDate = ""
		s.SelectedTimeSlot = ""
	}
	s.DeliveryType = t
	return nil
}

// SelectDate sets the delivery date. A different date clears the time slot.
func (s *Session) SelectDate(date string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if date != s.SelectedDate {
		s.SelectedTimeSlot = ""
	}
	s.SelectedDate = date
	return nil
}

// SelectTimeSlot sets the delivery time slot.
func (s *Session) SelectTimeSlot(slot string) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.SelectedTimeSlot = slot
	return nil
}

// ProceedToPayment moves from delivery to payment.
// Address, date and time slot are checked in that order; the first one missing is reported.
func (s *Session) ProceedToPayment() error {
	if err := s.editable(); err != nil {
		return err
	}

	switch {
	case s.Address == nil:
		return &PreconditionError{Missing: MissingAddress}
	case s.SelectedDate == "":
		return &PreconditionError{Missing: MissingDate}
	case s.SelectedTimeSlot == "":
		return &PreconditionError{Missing: MissingTimeSlot}
	}

	s.Step = StepPayment
	return nil
}

// BackToDelivery returns from payment to delivery, keeping all selections.
func (s *Session) BackToDelivery() error {
	if s.Processing {
		return ErrPaymentInProgress
	}
	if s.Step != StepPayment {
		return ErrInvalidTransition
	}
	s.Step = StepDelivery
	return nil
}

// BeginPayment enters the processing sub-state of the payment step.
func (s *Session) BeginPayment() error {
	if s.Processing {
		return ErrPaymentInProgress
	}
	if s.Step != StepPayment {
		return ErrInvalidTransition
	}
	s.Processing = true
	return nil
}

// FailPayment leaves the processing sub-state and stays on the payment step.
func (s *Session) FailPayment() {
	s.Processing = false
}

// CompletePayment moves a processing payment to confirmation.
func (s *Session) CompletePayment(confirmation Confirmation) error {
	if !s.Processing || s.Step != StepPayment {
		return ErrInvalidTransition
	}
	s.Processing = false
	s.Step = StepConfirmation
	s.Confirmation = &confirmation
	return nil
}

// ApplyCoupon records an accepted coupon and its discount.
func (s *Session) ApplyCoupon(coupon *coupons.Coupon, discount decimal.Decimal) error {
	if err := s.couponEditable(); err != nil {
		return err
	}
	s.AppliedCoupon = coupon
	s.DiscountAmount = discount
	s.CouponRejection = nil
	return nil
}

// RejectCoupon records a rejection. Any previously applied coupon is dropped.
func (s *Session) RejectCoupon(rejection *coupons.Rejection) error {
	if err := s.couponEditable(); err != nil {
		return err
	}
	s.AppliedCoupon = nil
	s.DiscountAmount = decimal.Zero
	s.CouponRejection = rejection
	return nil
}

// RemoveCoupon clears the coupon, its discount and any rejection. It is safe to call repeatedly.
func (s *Session) RemoveCoupon() error {
	if err := s.couponEditable(); err != nil {
		return err
	}
	s.AppliedCoupon = nil
	s.DiscountAmount = decimal.Zero
	s.CouponRejection = nil
	return nil
}

func (s *Session) couponEditable() error {
	if s.Processing {
		return ErrPaymentInProgress
	}
	if s.Step == StepConfirmation {
		return ErrInvalidTransition
	}
	return nil
}

// CouponCode returns the applied code, or "".
func (s *Session) CouponCode() string {
	if s.AppliedCoupon == nil {
		return ""
	}
	return s.AppliedCoupon.Code
}
