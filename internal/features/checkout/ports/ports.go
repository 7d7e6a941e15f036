package ports

import (
	"context"

	"storefront-checkout/internal/features/checkout/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"
	payments "storefront-checkout/internal/features/payments/domain"
)

// CheckoutService defines the primary port for one shopper's checkout.
type CheckoutService interface {
	Start(ctx context.Context) (domain.Session, error)
	Current() (domain.Session, error)
	Abandon() error
	SelectAddress(ctx context.Context, addressID string) (domain.Session, error)
	SelectDeliveryType(ctx context.Context, t delivery.Type) (domain.Session, error)
	SelectDate(ctx context.Context, date string) (domain.Session, error)
	SelectTimeSlot(ctx context.Context, slot string) (domain.Session, error)
	ApplyCoupon(ctx context.Context, code string) (domain.Session, coupons.Result, error)
	RemoveCoupon() (domain.Session, error)
	ProceedToPayment() (domain.Session, error)
	BackToDelivery() (domain.Session, error)
	Pay(ctx context.Context, method payments.Method) (*domain.Confirmation, error)
	Summary(ctx context.Context) (domain.Summary, error)
}
