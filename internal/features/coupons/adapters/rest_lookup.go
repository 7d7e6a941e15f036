package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

// RESTCouponLookup implements ports.CouponLookup against the coupon service.
type RESTCouponLookup struct {
	service *httpclient.Service
}

// NewRESTCouponLookup creates a new RESTCouponLookup.
func NewRESTCouponLookup(service *httpclient.Service) *RESTCouponLookup {
	return &RESTCouponLookup{service: service}
}

// FindByCode calls GET /api/coupons/validate/{code}. A 404 means the code does not exist.
func (a *RESTCouponLookup) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var wire couponResponse
	err := a.service.Do(ctx, http.MethodGet, "/api/coupons/validate/"+url.PathEscape(code), nil, &wire)
	if httpclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return wire.toDomain(), nil
}

// couponResponse is the coupon service representation.
type couponResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Type               string          `json:"type"`
	Value              decimal.Decimal `json:"value"`
	MinimumOrderAmount decimal.Decimal `json:"minimumOrderAmount"`
	MaxUsage           *int            `json:"maxUsage"`
	CurrentUsage       int             `json:"currentUsage"`
	ValidFrom          couponDate      `json:"validFrom"`
	ValidTo            couponDate      `json:"validTo"`
	IsActive           bool            `json:"isActive"`
}

func (c couponResponse) toDomain() *domain.Coupon {
	return &domain.Coupon{
		ID:                 c.ID,
		Code:               domain.NormalizeCode(c.Code),
		Type:               domain.Type(c.Type),
		Value:              c.Value,
		MinimumOrderAmount: c.MinimumOrderAmount,
		MaxUsage:           c.MaxUsage,
		CurrentUsage:       c.CurrentUsage,
		ValidFrom:          c.ValidFrom.start(),
		ValidTo:            c.ValidTo.end(),
		IsActive:           c.IsActive,
	}
}

const dateLayout = "2006-01-02"

// couponDate accepts an RFC 3339 timestamp or a bare date. Null and empty are open bounds.
type couponDate struct {
	at       *time.Time
	dateOnly bool
}

func (d *couponDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		*d = couponDate{}
		return nil
	}

	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		*d = couponDate{at: &t}
		return nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return fmt.Errorf("invalid coupon date %q", *raw)
	}
	*d = couponDate{at: &t, dateOnly: true}
	return nil
}

func (d couponDate) start() *time.Time {
	return d.at
}

// end treats a bare date as valid through the last instant of that day.
func (d couponDate) end() *time.Time {
	if d.at == nil || !d.dateOnly {
		return d.at
	}
	t := d.at.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &t
}
