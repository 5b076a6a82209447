package domain

import (
	"strings"
	"time"
)

type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
)

func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(strings.ToUpper(s)); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// PeriodKey uniquely identifies a period summary row
type PeriodKey struct {
	PeriodType  PeriodType
	PeriodStart time.Time
	AdID        int64
	ScreenID    int64
}

// PeriodSummary is a materialized plays/seconds aggregate for one ad on one screen
type PeriodSummary struct {
	PeriodType  PeriodType `json:"period_type"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	AdID        int64      `json:"ad_id"`
	ScreenID    int64      `json:"screen_id"`
	Plays       int64      `json:"plays"`
	Seconds     int64      `json:"seconds"`
}

func (p PeriodSummary) Key() PeriodKey {
	return PeriodKey{PeriodType: p.PeriodType, PeriodStart: p.PeriodStart, AdID: p.AdID, ScreenID: p.ScreenID}
}

// AdScreenTotals sums DAILY rows per ad and screen
type AdScreenTotals struct {
	AdID     int64 `json:"ad_id"`
	ScreenID int64 `json:"screen_id"`
	Plays    int64 `json:"plays"`
	Seconds  int64 `json:"seconds"`
}

// ScreenStats is the per-screen aggregation unit of a single computation
type ScreenStats struct {
	ScreenID   int64  `json:"screen_id"`
	ScreenName string `json:"screen_name"`
	Plays      int64  `json:"plays"`
	Seconds    int64  `json:"seconds"`
}

// StatsMode selects how airtime is computed
type StatsMode string

const (
	// ModeActual aggregates logged play events
	ModeActual StatsMode = "actual"
	// ModeEstimated reconstructs plays from schedule configuration
	ModeEstimated StatsMode = "estimated"
)

func ParseStatsMode(s string) (StatsMode, error) {
	switch m := StatsMode(strings.ToLower(s)); m {
	case "":
		return ModeActual, nil
	case ModeActual, ModeEstimated:
		return m, nil
	}
	return "", ErrInvalidMode
}

// AdStats are the totals and per-screen breakdown for one ad
type AdStats struct {
	AdID         int64         `json:"ad_id"`
	AdName       string        `json:"ad_name,omitempty"`
	CompanyName  string        `json:"company_name,omitempty"`
	Mode         StatsMode     `json:"mode"`
	TotalPlays   int64         `json:"total_plays"`
	TotalSeconds int64         `json:"total_seconds"`
	PerScreen    []ScreenStats `json:"per_screen"`

	// Observed lifetime bounds, set by the lifetime computation only
	LifetimeFrom *time.Time `json:"lifetime_from,omitempty"`
	LifetimeTo   *time.Time `json:"lifetime_to,omitempty"`
}

// AverageSecondsPerPlay is zero when there are no plays
func (s AdStats) AverageSecondsPerPlay() float64 {
	if s.TotalPlays <= 0 {
		return 0
	}
	return float64(s.TotalSeconds) / float64(s.TotalPlays)
}
