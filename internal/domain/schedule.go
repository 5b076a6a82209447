package domain

import (
	"time"

	"signagestats/pkg/clock"
)

// Schedule places one ad on one screen for a date window and a daily time window.
// Nil dates are unbounded; nil times mean the whole day.
type Schedule struct {
	ID              int64            `json:"id"`
	AdID            int64            `json:"ad_id"`
	ScreenID        *int64           `json:"screen_id,omitempty"`
	ScreenName      string           `json:"screen_name,omitempty"`
	FromDate        *time.Time       `json:"from_date,omitempty"`
	ToDate          *time.Time       `json:"to_date,omitempty"`
	FromTime        *clock.TimeOfDay `json:"from_time,omitempty"`
	ToTime          *clock.TimeOfDay `json:"to_time,omitempty"`
	DurationSeconds float64          `json:"duration_seconds"`
}

// DateRange returns the bounded date window, false when either end is missing
func (s Schedule) DateRange() (clock.DateRange, bool) {
	if s.FromDate == nil || s.ToDate == nil {
		return clock.DateRange{}, false
	}
	return clock.NewDateRange(clock.DateOnly(*s.FromDate), clock.DateOnly(*s.ToDate)), true
}

// ActiveOn reports whether the date window contains day
func (s Schedule) ActiveOn(day time.Time) bool {
	day = clock.DateOnly(day)
	if s.FromDate != nil && day.Before(clock.DateOnly(*s.FromDate)) {
		return false
	}
	if s.ToDate != nil && day.After(clock.DateOnly(*s.ToDate)) {
		return false
	}
	return true
}

func (s Schedule) WindowSeconds() int64 {
	return clock.WindowSeconds(s.FromTime, s.ToTime)
}
