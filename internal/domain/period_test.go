package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		tf   Timeframe
		in   time.Time
		want time.Time
	}{
		{"daily drops clock", TimeframeDaily, time.Date(2026, 3, 11, 17, 45, 0, 0, time.UTC), date(2026, 3, 11)},
		{"weekly from wednesday", TimeframeWeekly, date(2026, 3, 11), date(2026, 3, 9)},
		{"weekly from sunday", TimeframeWeekly, date(2026, 3, 15), date(2026, 3, 9)},
		{"weekly from monday", TimeframeWeekly, date(2026, 3, 16), date(2026, 3, 16)},
		{"weekly across month", TimeframeWeekly, date(2026, 3, 1), date(2026, 2, 23)},
		{"monthly", TimeframeMonthly, date(2026, 3, 31), date(2026, 3, 1)},
		{"yearly", TimeframeYearly, date(2026, 12, 31), date(2026, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tf.PeriodStart(tt.in))
		})
	}
}

func TestPeriodEnd_Exclusive(t *testing.T) {
	assert.Equal(t, date(2026, 3, 12), TimeframeDaily.PeriodEnd(date(2026, 3, 11)))
	assert.Equal(t, date(2026, 3, 16), TimeframeWeekly.PeriodEnd(date(2026, 3, 11)))
	assert.Equal(t, date(2026, 3, 1), TimeframeMonthly.PeriodEnd(date(2026, 2, 14)))
	assert.Equal(t, date(2027, 1, 1), TimeframeYearly.PeriodEnd(date(2026, 6, 1)))
}

func TestContains(t *testing.T) {
	start := date(2026, 3, 9)
	assert.True(t, TimeframeWeekly.Contains(start, date(2026, 3, 9)))
	assert.True(t, TimeframeWeekly.Contains(start, time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)))
	assert.False(t, TimeframeWeekly.Contains(start, date(2026, 3, 16)))
	assert.False(t, TimeframeWeekly.Contains(start, date(2026, 3, 8)))
	assert.True(t, TimeframeMonthly.Contains(date(2026, 2, 1), date(2026, 2, 28)))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
	assert.Equal(t, "09:05", tod.String())

	for _, bad := range []string{"", "9", "25:00", "12:60", "noon"} {
		_, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}
