package usecase

import (
	"testing"

	"signagestats/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	now := at("2025-03-10 12:00:00")

	tests := []struct {
		name      string
		schedules []domain.Schedule
		want      domain.AdStatus
	}{
		{
			name: "no schedules",
			want: domain.StatusInactive,
		},
		{
			name: "window contains now",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-03-01"), ToDate: datePtr("2025-03-31"), FromTime: tod("08:00"), ToTime: tod("20:00")},
			},
			want: domain.StatusActive,
		},
		{
			name:      "unbounded row",
			schedules: []domain.Schedule{{}},
			want:      domain.StatusActive,
		},
		{
			name: "window wraps past midnight",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-03-01"), ToDate: datePtr("2025-03-31"), FromTime: tod("22:00"), ToTime: tod("13:00")},
			},
			want: domain.StatusActive,
		},
		{
			name: "single future row",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-04-01"), ToDate: datePtr("2025-04-30")},
			},
			want: domain.StatusScheduled,
		},
		{
			name: "single past row",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-02-01"), ToDate: datePtr("2025-02-28")},
			},
			want: domain.StatusExpired,
		},
		{
			name: "future wins over past",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-02-01"), ToDate: datePtr("2025-02-28")},
				{FromDate: datePtr("2025-04-01"), ToDate: datePtr("2025-04-30")},
			},
			want: domain.StatusScheduled,
		},
		{
			name: "today but outside time window",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"), FromTime: tod("06:00"), ToTime: tod("09:00")},
			},
			want: domain.StatusInactive,
		},
		{
			name: "active row short-circuits",
			schedules: []domain.Schedule{
				{FromDate: datePtr("2025-02-01"), ToDate: datePtr("2025-02-28")},
				{FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10")},
			},
			want: domain.StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.schedules, now))
		})
	}
}
