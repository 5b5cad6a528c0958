package domain

import (
	"fmt"
	"time"
)

// PeriodStart normalizes d to the first day of the timeframe's period.
// Weeks start on Monday.
func (tf Timeframe) PeriodStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	switch tf {
	case TimeframeWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case TimeframeMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case TimeframeYearly:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// PeriodEnd returns the exclusive end of the period containing d.
func (tf Timeframe) PeriodEnd(d time.Time) time.Time {
	start := tf.PeriodStart(d)
	switch tf {
	case TimeframeWeekly:
		return start.AddDate(0, 0, 7)
	case TimeframeMonthly:
		return start.AddDate(0, 1, 0)
	case TimeframeYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Contains reports whether d falls in the period of tf starting at start.
func (tf Timeframe) Contains(start, d time.Time) bool {
	from := tf.PeriodStart(start)
	to := tf.PeriodEnd(start)
	day := TimeframeDaily.PeriodStart(d)
	return !day.Before(from) && day.Before(to)
}

// TimeOfDay is a wall-clock time used to place a commitment on a timeline.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q must be HH:MM", ErrInvalidInput, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
