package clock

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

const SecondsPerDay = 24 * 60 * 60

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateOnly maps t to midnight UTC of its calendar date, a stable key for day-grained rows
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// WeekStart returns the Monday of the week containing t
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday of the week containing t
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar day
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: StartOfDay(from), To: StartOfDay(to)}
}

func DayRange(ref time.Time) DateRange {
	return NewDateRange(ref, ref)
}

func WeekRange(ref time.Time) DateRange {
	return DateRange{From: WeekStart(ref), To: WeekEnd(ref)}
}

func MonthRange(ref time.Time) DateRange {
	return DateRange{From: MonthStart(ref), To: MonthEnd(ref)}
}

// Empty reports whether the range ends before it starts.
func (r DateRange) Empty() bool {
	return r.To.Before(r.From)
}

func (r DateRange) Contains(day time.Time) bool {
	day = StartOfDay(day)
	return !day.Before(r.From) && !day.After(r.To)
}

// Intersect returns the overlap of two ranges and false when they do not overlap.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	out := r
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.To.Before(out.To) {
		out.To = other.To
	}
	if out.Empty() {
		return DateRange{}, false
	}
	return out, true
}

// Days lists every calendar day in the range, in order.
func (r DateRange) Days() []time.Time {
	if r.Empty() {
		return nil
	}
	var days []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// HalfOpen converts the range to [From 00:00, To+1 00:00).
func (r DateRange) HalfOpen() (time.Time, time.Time) {
	return StartOfDay(r.From), NextDay(r.To)
}

func (r DateRange) String() string {
	return r.From.Format(DateLayout) + ".." + r.To.Format(DateLayout)
}
