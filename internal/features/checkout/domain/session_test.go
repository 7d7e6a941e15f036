package domain

import (
	"errors"
	"testing"

	addresses "storefront-checkout/internal/features/addresses/domain"
	coupons "storefront-checkout/internal/features/coupons/domain"
	delivery "storefront-checkout/internal/features/delivery/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("s1")
	require.NoError(t, s.SelectAddress(addresses.Address{ID: "a1"}))
	require.NoError(t, s.SelectDate("2026-10-19"))
	require.NoError(t, s.SelectTimeSlot("09:00 - 12:00"))
	return s
}

func missing(t *testing.T, err error) Precondition {
	t.Helper()
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe), "expected PreconditionError, got %v", err)
	return pe.Missing
}

func TestNewSession(t *testing.T) {
	s := NewSession("s1")
	assert.Equal(t, StepDelivery, s.Step)
	assert.Equal(t, delivery.TypeStandard, s.DeliveryType)
	assert.True(t, s.DiscountAmount.IsZero())
}

func TestSession_ProceedToPaymentGuardOrder(t *testing.T) {
	t.Run("NothingSelected", func(t *testing.T) {
		s := NewSession("s1")
		assert.Equal(t, MissingAddress, missing(t, s.ProceedToPayment()))
	})

	t.Run("AddressOnly", func(t *testing.T) {
		s := NewSession("s1")
		require.NoError(t, s.SelectAddress(addresses.Address{ID: "a1"}))
		assert.Equal(t, MissingDate, missing(t, s.ProceedToPayment()))
	})

	t.Run("AddressAndDateNoSlot", func(t *testing.T) {
		s := NewSession("s1")
		require.NoError(t, s.SelectAddress(addresses.Address{ID: "a1"}))
		require.NoError(t, s.SelectDate("2026-10-19"))

		err := s.ProceedToPayment()
		assert.Equal(t, MissingTimeSlot, missing(t, err))
		assert.Equal(t, "please select a time slot", err.Error())
		assert.Equal(t, StepDelivery, s.Step)
	})

	t.Run("AllSelected", func(t *testing.T) {
		s := readySession(t)
		require.NoError(t, s.ProceedToPayment())
		assert.Equal(t, StepPayment, s.Step)
	})
}

func TestSession_CrossFieldReset(t *testing.T) {
	s := readySession(t)

	require.NoError(t, s.SelectDeliveryType(delivery.TypeStandard))
	assert.Equal(t, "2026-10-19", s.SelectedDate, "same type keeps selections")

	require.NoError(t, s.SelectDeliveryType(delivery.TypeExpress))
	assert.Empty(t, s.SelectedDate)
	assert.Empty(t, s.SelectedTimeSlot)
	assert.NotNil(t, s.Address)

	require.NoError(t, s.SelectDate("2026-10-16"))
	require.NoError(t, s.SelectTimeSlot("09:00 - 12:00"))
	require.NoError(t, s.SelectDate("2026-10-17"))
	assert.Empty(t, s.SelectedTimeSlot)
}

func TestSession_Transitions(t *testing.T) {
	s := readySession(t)

	assert.ErrorIs(t, s.BackToDelivery(), ErrInvalidTransition)
	assert.ErrorIs(t, s.BeginPayment(), ErrInvalidTransition)

	require.NoError(t, s.ProceedToPayment())
	assert.ErrorIs(t, s.SelectTimeSlot("12:00 - 15:00"), ErrInvalidTransition)

	require.NoError(t, s.BackToDelivery())
	assert.Equal(t, StepDelivery, s.Step)
	assert.Equal(t, "09:00 - 12:00", s.SelectedTimeSlot)

	require.NoError(t, s.ProceedToPayment())
	require.NoError(t, s.BeginPayment())
	assert.True(t, s.Processing)
	assert.ErrorIs(t, s.BeginPayment(), ErrPaymentInProgress)
	assert.ErrorIs(t, s.BackToDelivery(), ErrPaymentInProgress)
	assert.ErrorIs(t, s.RemoveCoupon(), ErrPaymentInProgress)

	s.FailPayment()
	assert.False(t, s.Processing)
	assert.Equal(t, StepPayment, s.Step)

	require.NoError(t, s.BeginPayment())
	require.NoError(t, s.CompletePayment(Confirmation{OrderReference: "ORD-1"}))
	assert.Equal(t, StepConfirmation, s.Step)
	assert.False(t, s.Processing)
	assert.Equal(t, "ORD-1", s.Confirmation.OrderReference)

	assert.ErrorIs(t, s.BackToDelivery(), ErrInvalidTransition)
	assert.ErrorIs(t, s.ProceedToPayment(), ErrInvalidTransition)
	assert.ErrorIs(t, s.CompletePayment(Confirmation{}), ErrInvalidTransition)
}

func TestSession_Coupon(t *testing.T) {
	s := NewSession("s1")
	coupon := &coupons.Coupon{Code: "SAVE10"}

	require.NoError(t, s.ApplyCoupon(coupon, decimal.NewFromInt(10)))
	assert.Equal(t, "SAVE10", s.CouponCode())
	assert.Equal(t, "10", s.DiscountAmount.String())

	require.NoError(t, s.RejectCoupon(coupons.NewRejection(coupons.ReasonBelowMinimum)))
	assert.Nil(t, s.AppliedCoupon)
	assert.True(t, s.DiscountAmount.IsZero())
	require.NotNil(t, s.CouponRejection)

	require.NoError(t, s.RemoveCoupon())
	assert.Nil(t, s.CouponRejection)
	require.NoError(t, s.RemoveCoupon())
	assert.True(t, s.DiscountAmount.IsZero())
	assert.Equal(t, "", s.CouponCode())
}
