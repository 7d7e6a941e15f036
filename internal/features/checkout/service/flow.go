package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront-checkout/internal/core/logger"
	addressports "storefront-checkout/internal/features/addresses/ports"
	cartports "storefront-checkout/internal/features/cart/ports"
	"storefront-checkout/internal/features/checkout/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"
	couponports "storefront-checkout/internal/features/coupons/ports"
	delivery "storefront-checkout/internal/features/delivery/domain"
	deliveryports "storefront-checkout/internal/features/delivery/ports"
	payments "storefront-checkout/internal/features/payments/domain"
	paymentports "storefront-checkout/internal/features/payments/ports"
	pricing "storefront-checkout/internal/features/pricing/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flow holds the collaborators shared by every shopper's checkout.
type Flow struct {
	coupons   couponports.CouponValidator
	delivery  deliveryports.DeliveryService
	addresses addressports.AddressService
	engine    *pricing.Engine
	processor paymentports.Processor
	now       func() time.Time
}

// NewFlow creates a Flow.
func NewFlow(
	couponValidator couponports.CouponValidator,
	deliveryService deliveryports.DeliveryService,
	addressService addressports.AddressService,
	engine *pricing.Engine,
	processor paymentports.Processor,
) *Flow {
	return &Flow{
		coupons:   couponValidator,
		delivery:  deliveryService,
		addresses: addressService,
		engine:    engine,
		processor: processor,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp confirmations.
func (f *Flow) WithClock(now func() time.Time) *Flow {
	f.now = now
	return f
}

// For returns the checkout of the shopper owning cart.
func (f *Flow) For(cart cartports.CartService) *Checkout {
	return &Checkout{flow: f, cart: cart, log: logger.Named("checkout")}
}

// Checkout implements ports.CheckoutService for one shopper.
// The session is guarded by mu, which is never held across a remote call.
type Checkout struct {
	flow *Flow
	cart cartports.CartService
	log  *zap.Logger

	mu      sync.Mutex
	session *domain.Session
}

// Start begins a new checkout. The cart must hold at least one item.
func (c *Checkout) Start(ctx context.Context) (domain.Session, error) {
	c.mu.Lock()
	processing := c.session != nil && c.session.Processing
	c.mu.Unlock()
	if processing {
		return domain.Session{}, domain.ErrPaymentInProgress
	}

	current, err := c.cart.Load(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if current.IsEmpty() {
		return domain.Session{}, domain.ErrEmptyCart
	}

	session := domain.NewSession(uuid.NewString())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.Processing {
		return domain.Session{}, domain.ErrPaymentInProgress
	}
	c.session = session
	c.log.Debug("Checkout started", zap.String("checkout_id", session.ID))
	return *session, nil
}

// Current returns the checkout in progress.
func (c *Checkout) Current() (domain.Session, error) {
	return c.update(func(*domain.Session) error { return nil })
}

// Abandon discards the checkout. Selections and coupon are lost.
func (c *Checkout) Abandon() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	if c.session.Processing {
		return domain.ErrPaymentInProgress
	}
	c.session = nil
	return nil
}

// SelectAddress resolves addressID against the address book and selects it.
func (c *Checkout) SelectAddress(ctx context.Context, addressID string) (domain.Session, error) {
	if _, err := c.Current(); err != nil {
		return domain.Session{}, err
	}

	address, err := c.flow.addresses.Get(ctx, addressID)
	if err != nil {
		return domain.Session{}, err
	}

	return c.update(func(s *domain.Session) error {
		return s.SelectAddress(*address)
	})
}

// SelectDeliveryType selects an offered delivery type.
func (c *Checkout) SelectDeliveryType(ctx context.Context, t delivery.Type) (domain.Session, error) {
	if _, err := c.Current(); err != nil {
		return domain.Session{}, err
	}
	if !t.Valid() || delivery.Find(c.flow.delivery.Options(ctx), t) == nil {
		return domain.Session{}, &domain.SelectionError{Field: "type", Message: "This delivery type is not available"}
	}

	return c.update(func(s *domain.Session) error {
		return s.SelectDeliveryType(t)
	})
}

// SelectDate selects a date offered for the current delivery type.
func (c *Checkout) SelectDate(ctx context.Context, date string) (domain.Session, error) {
	current, err := c.Current()
	if err != nil {
		return domain.Session{}, err
	}

	option := delivery.Find(c.flow.delivery.Options(ctx), current.DeliveryType)
	if option == nil || option.Day(date) == nil {
		return domain.Session{}, &domain.SelectionError{Field: "date", Message: "This delivery date is not available"}
	}

	return c.update(func(s *domain.Session) error {
		if s.DeliveryType != current.DeliveryType {
			return &domain.SelectionError{Field: "date", Message: "The delivery type changed, please pick the date again"}
		}
		return s.SelectDate(date)
	})
}

// SelectTimeSlot selects a slot offered on the selected date.
func (c *Checkout) SelectTimeSlot(ctx context.Context, slot string) (domain.Session, error) {
	current, err := c.Current()
	if err != nil {
		return domain.Session{}, err
	}
	if current.SelectedDate == "" {
		return domain.Session{}, &domain.PreconditionError{Missing: domain.MissingDate}
	}

	option := delivery.Find(c.flow.delivery.Options(ctx), current.DeliveryType)
	if option == nil || !option.HasSlot(current.SelectedDate, slot) {
		return domain.Session{}, &domain.SelectionError{Field: "slot", Message: "This time slot is not available"}
	}

	return c.update(func(s *domain.Session) error {
		if s.DeliveryType != current.DeliveryType || s.SelectedDate != current.SelectedDate {
			return &domain.SelectionError{Field: "slot", Message: "The delivery date changed, please pick the time slot again"}
		}
		return s.SelectTimeSlot(slot)
	})
}

// ApplyCoupon validates code against the cart subtotal and applies it when accepted.
// A rejection is recorded on the session and returned in the result, not as an error.
func (c *Checkout) ApplyCoupon(ctx context.Context, code string) (domain.Session, coupons.Result, error) {
	if _, err := c.Current(); err != nil {
		return domain.Session{}, coupons.Result{}, err
	}

	subtotal := c.cart.Snapshot().Subtotal
	result, err := c.flow.coupons.Validate(ctx, code, subtotal)
	if err != nil {
		return domain.Session{}, coupons.Result{}, err
	}

	session, err := c.update(func(s *domain.Session) error {
		if !result.Valid() {
			return s.RejectCoupon(result.Rejection)
		}
		return s.ApplyCoupon(result.Coupon, pricing.CalculateDiscount(result.Coupon, subtotal))
	})
	return session, result, err
}

// RemoveCoupon clears the coupon and its discount.
func (c *Checkout) RemoveCoupon() (domain.Session, error) {
	return c.update(func(s *domain.Session) error {
		return s.RemoveCoupon()
	})
}

// ProceedToPayment moves to the payment step.
func (c *Checkout) ProceedToPayment() (domain.Session, error) {
	return c.update(func(s *domain.Session) error {
		return s.ProceedToPayment()
	})
}

// BackToDelivery returns to the delivery step.
func (c *Checkout) BackToDelivery() (domain.Session, error) {
	return c.update(func(s *domain.Session) error {
		return s.BackToDelivery()
	})
}

// Pay charges the order and confirms it.
// The applied coupon is checked again against the current subtotal first. After the
// charge settles the cart is cleared, and only then does the session reach confirmation.
func (c *Checkout) Pay(ctx context.Context, method payments.Method) (*domain.Confirmation, error) {
	if !method.Valid() {
		return nil, payments.ErrUnsupportedMethod
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, domain.ErrNotStarted
	}
	if err := c.session.BeginPayment(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	snapshot := *c.session
	c.mu.Unlock()

	current, err := c.cart.Load(ctx)
	if err != nil {
		return nil, c.failPayment(err, nil)
	}
	if current.IsEmpty() {
		return nil, c.failPayment(domain.ErrEmptyCart, nil)
	}

	coupon := snapshot.AppliedCoupon
	if coupon != nil {
		result, err := c.flow.coupons.Validate(ctx, coupon.Code, current.Subtotal)
		if err != nil {
			return nil, c.failPayment(err, nil)
		}
		if !result.Valid() {
			return nil, c.failPayment(&domain.CouponRejectedError{Rejection: result.Rejection}, result.Rejection)
		}
		coupon = result.Coupon
	}

	breakdown := c.flow.engine.Quote(current.Subtotal, snapshot.DeliveryType, coupon)

	receipt, err := c.flow.processor.Process(ctx, payments.Charge{Amount: breakdown.FinalTotal, Method: method})
	if err != nil {
		return nil, c.failPayment(err, nil)
	}

	if _, err := c.cart.Clear(ctx); err != nil {
		c.log.Warn("Cart not cleared after payment",
			zap.String("checkout_id", snapshot.ID),
			zap.String("payment_reference", receipt.Reference),
			zap.Error(err),
		)
	}

	confirmation := domain.Confirmation{
		OrderReference: "ORD-" + uuid.NewString(),
		Receipt:        *receipt,
		Breakdown:      breakdown,
		Items:          current.Items,
		Address:        *snapshot.Address,
		DeliveryType:   snapshot.DeliveryType,
		DeliveryDate:   snapshot.SelectedDate,
		TimeSlot:       snapshot.SelectedTimeSlot,
		ConfirmedAt:    c.flow.now().UTC(),
	}
	if coupon != nil {
		confirmation.CouponCode = coupon.Code
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.session.CompletePayment(confirmation); err != nil {
		return nil, err
	}

	c.log.Info("Checkout confirmed",
		zap.String("checkout_id", snapshot.ID),
		zap.String("order_reference", confirmation.OrderReference),
		zap.String("total", breakdown.FinalTotal.StringFixed(2)),
	)
	return &confirmation, nil
}

// Summary prices the current cart with the checkout selections.
func (c *Checkout) Summary(ctx context.Context) (domain.Summary, error) {
	session, err := c.Current()
	if err != nil {
		return domain.Summary{}, err
	}

	current, err := c.cart.Load(ctx)
	if err != nil {
		return domain.Summary{}, err
	}

	breakdown := c.flow.engine.Quote(current.Subtotal, session.DeliveryType, session.AppliedCoupon)

	c.mu.Lock()
	if c.session != nil && c.session.AppliedCoupon == session.AppliedCoupon && session.AppliedCoupon != nil {
		c.session.DiscountAmount = breakdown.Discount
	}
	c.mu.Unlock()

	return domain.Summary{
		Items:        current.Items,
		DeliveryType: session.DeliveryType,
		CouponCode:   session.CouponCode(),
		Breakdown:    breakdown,
	}, nil
}

// failPayment leaves the processing sub-state, records a coupon rejection if any, and returns err.
func (c *Checkout) failPayment(err error, rejection *coupons.Rejection) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.FailPayment()
		if rejection != nil {
			_ = c.session.RejectCoupon(rejection)
		}
	}
	return err
}

// update runs fn on the session under the lock and returns a copy.
func (c *Checkout) update(fn func(*domain.Session) error) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return domain.Session{}, domain.ErrNotStarted
	}
	if err := fn(c.session); err != nil {
		return *c.session, err
	}
	return *c.session, nil
}
