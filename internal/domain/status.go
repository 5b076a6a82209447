package domain

import "time"

// AdStatus classifies an ad by its schedule windows
type AdStatus string

const (
	StatusActive    AdStatus = "Active"
	StatusScheduled AdStatus = "Scheduled"
	StatusExpired   AdStatus = "Expired"
	StatusInactive  AdStatus = "Inactive"
)

// AdListItem is one row of the ad list view
type AdListItem struct {
	MediaAsset
	Status       AdStatus `json:"status"`
	TotalPlays   int64    `json:"total_plays"`
	TotalSeconds int64    `json:"total_seconds"`
}

type AdList struct {
	Active    []AdListItem `json:"active"`
	Scheduled []AdListItem `json:"scheduled"`
	Expired   []AdListItem `json:"expired"`
	Inactive  []AdListItem `json:"inactive"`
}

type ScreenStatus string

const (
	ScreenOK   ScreenStatus = "OK"
	ScreenDown ScreenStatus = "DOWN"
)

// ScreenHealth is the result of one health observation
type ScreenHealth struct {
	ScreenID   int64        `json:"screen_id"`
	ScreenName string       `json:"screen_name"`
	LastSeen   *time.Time   `json:"last_seen,omitempty"`
	Status     ScreenStatus `json:"status"`
}

type AlertKind string

const (
	AlertDown      AlertKind = "down"
	AlertRecovered AlertKind = "recovered"
)

// Alert is one consolidated batch of screen transitions
type Alert struct {
	Kind    AlertKind
	Entries []string
}
