package domain

import "time"

// AdReport is the detail view of one ad around a reference day
type AdReport struct {
	Asset    MediaAsset `json:"asset"`
	Status   AdStatus   `json:"status"`
	RefDay   time.Time  `json:"ref_day"`
	Mode     StatsMode  `json:"mode"`
	Lifetime *AdStats   `json:"lifetime"`
	Day      *AdStats   `json:"day"`
	Week     *AdStats   `json:"week"`
	Month    *AdStats   `json:"month"`
}

// RangeReport carries the numeric content of a printable report
type RangeReport struct {
	Asset        MediaAsset `json:"asset"`
	From         time.Time  `json:"from"`
	To           time.Time  `json:"to"`
	Stats        *AdStats   `json:"stats"`
	AvgPerPlay   float64    `json:"avg_seconds_per_play"`
	LifetimeFrom *time.Time `json:"lifetime_from,omitempty"`
	LifetimeTo   *time.Time `json:"lifetime_to,omitempty"`
}
