package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewQuoteCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCommand_Flags(t *testing.T) {
	cmd := NewQuoteCommand()
	assert.Equal(t, "quote", cmd.Use)

	delivery := cmd.Flags().Lookup("delivery")
	require.NotNil(t, delivery)
	assert.Equal(t, "d", delivery.Shorthand)
	assert.Equal(t, "standard", delivery.DefValue)

	assert.Equal(t, "0.1", cmd.Flags().Lookup("tax-rate").DefValue)
	assert.Equal(t, "9.99", cmd.Flags().Lookup("express-fee").DefValue)
}

func TestQuoteCommand_Text(t *testing.T) {
	out, err := runCommand(t, "--subtotal", "100", "--coupon", "save10", "--coupon-value", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Subtotal:    100.00")
	assert.Contains(t, out, "Tax (10%):  10.00")
	assert.Contains(t, out, "Discount:   -10.00 (SAVE10)")
	assert.Contains(t, out, "Total:       100.00")
}

func TestQuoteCommand_JSON(t *testing.T) {
	t.Run("FixedCouponCapped", func(t *testing.T) {
		out, err := runCommand(t, "--subtotal", "30", "--coupon", "FIFTY",
			"--coupon-type", "fixed", "--coupon-value", "50", "--format", "json")
		require.NoError(t, err)

		var result QuoteResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "30.00", result.Breakdown.Discount.StringFixed(2))
		assert.Equal(t, "3.00", result.Breakdown.FinalTotal.StringFixed(2))
	})

	t.Run("Express", func(t *testing.T) {
		out, err := runCommand(t, "--subtotal", "40", "-d", "express", "--format", "json")
		require.NoError(t, err)

		var result QuoteResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "9.99", result.Breakdown.Shipping.StringFixed(2))
		assert.Equal(t, "53.99", result.Breakdown.FinalTotal.StringFixed(2))
		assert.Empty(t, result.Coupon)
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		out, err := runCommand(t, "--subtotal", "20", "--coupon", "BIG", "--coupon-type", "FIXED",
			"--coupon-value", "5", "--coupon-minimum", "50", "--format", "json")
		require.NoError(t, err)

		var result QuoteResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.NotNil(t, result.Rejection)
		assert.Equal(t, "BELOW_MINIMUM", string(result.Rejection.Reason))
		assert.True(t, result.Breakdown.Discount.IsZero())
	})
}

func TestQuoteCommand_CouponService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/coupons/validate/SAVE20", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","code":"SAVE20","type":"PERCENTAGE","value":20,"minimumOrderAmount":0,"currentUsage":0,"isActive":true}`))
	}))
	defer srv.Close()

	out, err := runCommand(t, "--subtotal", "50", "--coupon", "save20", "--coupon-service", srv.URL, "--format", "json")
	require.NoError(t, err)

	var result QuoteResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "SAVE20", result.Coupon)
	assert.Equal(t, "10.00", result.Breakdown.Discount.StringFixed(2))
}

func TestQuoteCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"MissingSubtotal", []string{}, "subtotal"},
		{"NegativeSubtotal", []string{"--subtotal", "-1"}, "must not be negative"},
		{"BadDelivery", []string{"--subtotal", "10", "-d", "drone"}, "invalid delivery type"},
		{"BadCouponType", []string{"--subtotal", "10", "-c", "X", "--coupon-type", "BOGO", "--coupon-value", "1"}, "invalid coupon type"},
		{"MissingCouponValue", []string{"--subtotal", "10", "-c", "X"}, "--coupon-value is required"},
		{"BadFormat", []string{"--subtotal", "10", "--format", "xml"}, "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
