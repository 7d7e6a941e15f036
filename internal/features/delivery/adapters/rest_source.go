package adapters

import (
	"context"
	"net/http"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/features/delivery/domain"

	"github.com/shopspring/decimal"
)

// RESTOptionsSource implements ports.OptionsSource against the delivery endpoint.
type RESTOptionsSource struct {
	service *httpclient.Service
}

// NewRESTOptionsSource creates a new RESTOptionsSource.
func NewRESTOptionsSource(service *httpclient.Service) *RESTOptionsSource {
	return &RESTOptionsSource{service: service}
}

// FetchOptions calls GET /api/delivery/options.
func (s *RESTOptionsSource) FetchOptions(ctx context.Context) ([]domain.Option, error) {
	var wire []optionResponse
	if err := s.service.Do(ctx, http.MethodGet, "/api/delivery/options", nil, &wire); err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(wire))
	for _, o := range wire {
		days := make([]domain.Day, 0, len(o.DeliveryDays))
		for _, d := range o.DeliveryDays {
			days = append(days, domain.Day{Date: d.Date, Slots: d.Slots})
		}
		options = append(options, domain.Option{
			Key:          domain.Type(o.Key),
			Title:        o.Title,
			Price:        o.Price,
			DeliveryDays: days,
		})
	}
	return options, nil
}

type optionResponse struct {
	Key          string          `json:"key"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays []struct {
		Date  string   `json:"date"`
		Slots []string `json:"slots"`
	} `json:"deliveryDays"`
}
