package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"storefront-checkout/internal/core/httpclient"
	couponadapter "storefront-checkout/internal/features/coupons/adapters"
	coupons "storefront-checkout/internal/features/coupons/domain"
	couponports "storefront-checkout/internal/features/coupons/ports"
	couponservice "storefront-checkout/internal/features/coupons/service"
	delivery "storefront-checkout/internal/features/delivery/domain"
	pricing "storefront-checkout/internal/features/pricing/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// QuoteOptions holds the flags of the quote command.
type QuoteOptions struct {
	Subtotal      string
	Delivery      string
	TaxRate       string
	StandardFee   string
	ExpressFee    string
	Coupon        string
	CouponType    string
	CouponValue   string
	CouponMinimum string
	CouponService string
	Timeout       time.Duration
	Format        string
}

// QuoteResult is what the quote command prints.
type QuoteResult struct {
	Breakdown pricing.Breakdown  `json:"breakdown"`
	Coupon    string             `json:"coupon,omitempty"`
	Rejection *coupons.Rejection `json:"rejection,omitempty"`
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand() *cobra.Command {
	opts := &QuoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a subtotal with tax, shipping and an optional coupon",
		Long: `Price a subtotal the way checkout does.

The coupon is either described inline with --coupon-type and --coupon-value,
or looked up by code on the coupon service with --coupon-service.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Subtotal, "subtotal", "", "cart subtotal")
	cmd.Flags().StringVarP(&opts.Delivery, "delivery", "d", string(delivery.TypeStandard), "delivery type (standard|express)")
	cmd.Flags().StringVar(&opts.TaxRate, "tax-rate", pricing.DefaultTaxRate.String(), "tax rate as a fraction")
	cmd.Flags().StringVar(&opts.StandardFee, "standard-fee", "0", "standard delivery fee")
	cmd.Flags().StringVar(&opts.ExpressFee, "express-fee", pricing.DefaultExpressFee.String(), "express delivery fee")
	cmd.Flags().StringVarP(&opts.Coupon, "coupon", "c", "", "coupon code")
	cmd.Flags().StringVar(&opts.CouponType, "coupon-type", string(coupons.TypePercentage), "inline coupon type (PERCENTAGE|FIXED)")
	cmd.Flags().StringVar(&opts.CouponValue, "coupon-value", "", "inline coupon value")
	cmd.Flags().StringVar(&opts.CouponMinimum, "coupon-minimum", "0", "inline coupon minimum order amount")
	cmd.Flags().StringVar(&opts.CouponService, "coupon-service", "", "coupon service base URL for looking up --coupon")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "coupon service timeout")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	_ = cmd.MarkFlagRequired("subtotal")

	return cmd
}

func runQuote(ctx context.Context, opts *QuoteOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be one of [text json]", opts.Format)
	}

	subtotal, err := parseAmount("subtotal", opts.Subtotal)
	if err != nil {
		return err
	}
	deliveryType := delivery.Type(strings.ToLower(opts.Delivery))
	if !deliveryType.Valid() {
		return fmt.Errorf("invalid delivery type %q", opts.Delivery)
	}

	engine, err := buildEngine(opts)
	if err != nil {
		return err
	}

	result := QuoteResult{}
	var applied *coupons.Coupon
	if strings.TrimSpace(opts.Coupon) != "" {
		lookup, err := buildLookup(opts)
		if err != nil {
			return err
		}

		verdict, err := couponservice.NewValidator(lookup).Validate(ctx, opts.Coupon, subtotal)
		if err != nil {
			return fmt.Errorf("coupon lookup failed: %w", err)
		}
		if verdict.Valid() {
			applied = verdict.Coupon
			result.Coupon = verdict.Coupon.Code
		}
		result.Rejection = verdict.Rejection
	}

	result.Breakdown = engine.Quote(subtotal, deliveryType, applied)
	return printQuote(w, opts.Format, result)
}

func buildEngine(opts *QuoteOptions) (*pricing.Engine, error) {
	rate, err := parseAmount("tax-rate", opts.TaxRate)
	if err != nil {
		return nil, err
	}
	standard, err := parseAmount("standard-fee", opts.StandardFee)
	if err != nil {
		return nil, err
	}
	express, err := parseAmount("express-fee", opts.ExpressFee)
	if err != nil {
		return nil, err
	}
	return pricing.NewEngine(rate, standard, express), nil
}

func buildLookup(opts *QuoteOptions) (couponports.CouponLookup, error) {
	if opts.CouponService != "" {
		client, err := httpclient.NewClient(httpclient.Options{Timeout: opts.Timeout, Retry: httpclient.DefaultRetryPolicy})
		if err != nil {
			return nil, err
		}
		return couponadapter.NewRESTCouponLookup(httpclient.NewService("coupon", opts.CouponService, client)), nil
	}

	value, err := parseAmount("coupon-value", opts.CouponValue)
	if err != nil {
		return nil, err
	}
	minimum, err := parseAmount("coupon-minimum", opts.CouponMinimum)
	if err != nil {
		return nil, err
	}

	couponType := coupons.Type(strings.ToUpper(opts.CouponType))
	if couponType != coupons.TypePercentage && couponType != coupons.TypeFixed {
		return nil, fmt.Errorf("invalid coupon type %q", opts.CouponType)
	}

	return inlineCoupon{coupon: coupons.Coupon{
		ID:                 "inline",
		Code:               coupons.NormalizeCode(opts.Coupon),
		Type:               couponType,
		Value:              value,
		MinimumOrderAmount: minimum,
		IsActive:           true,
	}}, nil
}

// inlineCoupon resolves the single coupon described on the command line.
type inlineCoupon struct {
	coupon coupons.Coupon
}

func (l inlineCoupon) FindByCode(_ context.Context, code string) (*coupons.Coupon, error) {
	if code != l.coupon.Code {
		return nil, nil
	}
	c := l.coupon
	return &c, nil
}

func parseAmount(flag, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, fmt.Errorf("--%s is required", flag)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, raw, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s must not be negative", flag)
	}
	return amount, nil
}

func printQuote(w io.Writer, format string, result QuoteResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	b := result.Breakdown
	fmt.Fprintf(w, "Subtotal:    %s\n", b.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "Tax (%s%%):  %s\n", b.TaxRate.Mul(decimal.NewFromInt(100)).String(), b.Tax.StringFixed(2))
	fmt.Fprintf(w, "Shipping:    %s\n", b.Shipping.StringFixed(2))
	if result.Coupon != "" {
		fmt.Fprintf(w, "Discount:   -%s (%s)\n", b.Discount.StringFixed(2), result.Coupon)
	}
	if result.Rejection != nil {
		fmt.Fprintf(w, "Coupon:      %s\n", result.Rejection.Message)
	}
	fmt.Fprintf(w, "Total:       %s\n", b.FinalTotal.StringFixed(2))
	return nil
}
