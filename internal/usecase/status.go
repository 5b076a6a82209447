package usecase

import (
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
)

// ClassifyStatus labels an ad from its schedule rows as seen at now.
// Any row whose date and time windows contain now makes the ad Active.
// Otherwise a future start wins over a past end; no rows means Inactive.
func ClassifyStatus(schedules []domain.Schedule, now time.Time) domain.AdStatus {
	if len(schedules) == 0 {
		return domain.StatusInactive
	}

	today := clock.DateOnly(now)
	timeNow := clock.TimeOfDayOf(now)

	var hasFuture, hasPast bool
	for _, s := range schedules {
		if s.ActiveOn(today) && timeNow.Within(s.FromTime, s.ToTime) {
			return domain.StatusActive
		}
		if s.FromDate != nil && clock.DateOnly(*s.FromDate).After(today) {
			hasFuture = true
		}
		if s.ToDate != nil && clock.DateOnly(*s.ToDate).Before(today) {
			hasPast = true
		}
	}

	switch {
	case hasFuture:
		return domain.StatusScheduled
	case hasPast:
		return domain.StatusExpired
	default:
		return domain.StatusInactive
	}
}
