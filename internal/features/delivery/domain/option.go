package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is a delivery speed.
type Type string

const (
	TypeStandard Type = "standard"
	TypeExpress  Type = "express"
)

// DateLayout is the wire format of delivery dates.
const DateLayout = "2006-01-02"

// Valid reports whether t is a known delivery type.
func (t Type) Valid() bool {
	return t == TypeStandard || t == TypeExpress
}

// Day is a deliverable date with its time slots.
type Day struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// Option is a delivery type offered to the shopper.
type Option struct {
	Key          Type            `json:"key"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays []Day           `json:"delivery_days"`
}

// Day returns the schedule entry for date, or nil.
func (o Option) Day(date string) *Day {
	for i := range o.DeliveryDays {
		if o.DeliveryDays[i].Date == date {
			return &o.DeliveryDays[i]
		}
	}
	return nil
}

// HasSlot reports whether slot is offered on date.
func (o Option) HasSlot(date, slot string) bool {
	day := o.Day(date)
	if day == nil {
		return false
	}
	for _, s := range day.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Find returns the option with the given key, or nil.
func Find(options []Option, key Type) *Option {
	for i := range options {
		if options[i].Key == key {
			return &options[i]
		}
	}
	return nil
}

var (
	standardSlots = []string{"09:00 - 12:00", "12:00 - 15:00", "15:00 - 18:00", "18:00 - 21:00"}
	expressSlots  = []string{"09:00 - 12:00", "14:00 - 17:00"}
)

// FallbackOptions synthesizes the delivery schedule used when no delivery
// service is configured or it cannot be reached. Standard delivery starts three
// days out and offers five dates, express starts the next day and offers three.
// Sundays are never offered.
func FallbackOptions(now time.Time, standardFee, expressFee decimal.Decimal) []Option {
	return []Option{
		{
			Key:          TypeStandard,
			Title:        "Standard delivery",
			Price:        standardFee,
			DeliveryDays: schedule(now, 3, 5, standardSlots),
		},
		{
			Key:          TypeExpress,
			Title:        "Express delivery",
			Price:        expressFee,
			DeliveryDays: schedule(now, 1, 3, expressSlots),
		},
	}
}

func schedule(now time.Time, startOffset, count int, slots []string) []Day {
	days := make([]Day, 0, count)
	date := now.AddDate(0, 0, startOffset)
	for len(days) < count {
		if date.Weekday() != time.Sunday {
			days = append(days, Day{
				Date:  date.Format(DateLayout),
				Slots: append([]string(nil), slots...),
			})
		}
		date = date.AddDate(0, 0, 1)
	}
	return days
}
