package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaAsset is an advertisement that can be scheduled on screens
type MediaAsset struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	CompanyName     string  `json:"company_name"`
	DurationSeconds float64 `json:"duration_seconds"`
	Active          bool    `json:"active"`
}

type Screen struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// DisplayName falls back to a synthesized label when the name is blank
func (s Screen) DisplayName() string {
	return ScreenLabel(s.ID, s.Name)
}

func ScreenLabel(id int64, name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("Screen %d", id)
}

// PlayEvent is a single observed playback of an ad on a screen
type PlayEvent struct {
	ID         int64      `json:"id"`
	AdID       *int64     `json:"ad_id,omitempty"`
	ScreenID   *int64     `json:"screen_id,omitempty"`
	ScreenName string     `json:"screen_name,omitempty"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
}

// EffectiveEnd treats a missing end as the start instant
func (e PlayEvent) EffectiveEnd() time.Time {
	if e.End == nil {
		return e.Start
	}
	return *e.End
}

// DurationSeconds is max(0, end-start) in whole seconds
func (e PlayEvent) DurationSeconds() int64 {
	d := int64(e.EffectiveEnd().Sub(e.Start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// ScreenLastSeen is the latest event start observed for a screen
type ScreenLastSeen struct {
	ScreenID   int64      `json:"screen_id"`
	ScreenName string     `json:"screen_name"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}
