package clock

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as seconds since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Seconds() int64 {
	return int64(t)
}

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Within reports whether t falls inside [from, to]. A nil bound is open.
// When both bounds are set and to < from the window wraps past midnight.
func (t TimeOfDay) Within(from, to *TimeOfDay) bool {
	if from != nil && to != nil && *to < *from {
		return t >= *from || t <= *to
	}
	if from != nil && t < *from {
		return false
	}
	if to != nil && t > *to {
		return false
	}
	return true
}

// WindowSeconds is the length of the daily window [from, to).
// A nil from means midnight, a nil to means end of day.
func WindowSeconds(from, to *TimeOfDay) int64 {
	start := int64(0)
	end := int64(SecondsPerDay)
	if from != nil {
		start = from.Seconds()
	}
	if to != nil {
		end = to.Seconds()
	}
	if end < start {
		end += SecondsPerDay
	}
	return end - start
}
