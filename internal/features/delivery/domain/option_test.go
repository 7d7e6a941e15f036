package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackOptions(t *testing.T) {
	// Thursday
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	options := FallbackOptions(now, decimal.Zero, decimal.RequireFromString("9.99"))
	require.Len(t, options, 2)

	standard := Find(options, TypeStandard)
	require.NotNil(t, standard)
	assert.True(t, standard.Price.IsZero())
	require.Len(t, standard.DeliveryDays, 5)
	// Oct 18 is a Sunday and is skipped.
	assert.Equal(t, "2026-10-19", standard.DeliveryDays[0].Date)
	assert.Equal(t, "2026-10-23", standard.DeliveryDays[4].Date)

	express := Find(options, TypeExpress)
	require.NotNil(t, express)
	assert.Equal(t, "9.99", express.Price.StringFixed(2))
	require.Len(t, express.DeliveryDays, 3)
	assert.Equal(t, []string{"2026-10-16", "2026-10-17", "2026-10-19"},
		[]string{express.DeliveryDays[0].Date, express.DeliveryDays[1].Date, express.DeliveryDays[2].Date})

	for _, o := range options {
		for _, d := range o.DeliveryDays {
			day, err := time.Parse(DateLayout, d.Date)
			require.NoError(t, err)
			assert.NotEqual(t, time.Sunday, day.Weekday())
			assert.NotEmpty(t, d.Slots)
		}
	}
}

func TestOption_HasSlot(t *testing.T) {
	o := Option{Key: TypeExpress, DeliveryDays: []Day{{Date: "2026-10-16", Slots: []string{"09:00 - 12:00"}}}}

	assert.True(t, o.HasSlot("2026-10-16", "09:00 - 12:00"))
	assert.False(t, o.HasSlot("2026-10-16", "18:00 - 21:00"))
	assert.False(t, o.HasSlot("2026-10-17", "09:00 - 12:00"))
	assert.Nil(t, o.Day("2026-10-17"))
}

func TestType_Valid(t *testing.T) {
	assert.True(t, TypeStandard.Valid())
	assert.True(t, TypeExpress.Valid())
	assert.False(t, Type("drone").Valid())
	assert.Nil(t, Find(nil, TypeExpress))
}
