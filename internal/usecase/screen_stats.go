package usecase

import (
	"sort"

	"signagestats/internal/domain"
)

// screenAccumulator groups plays/seconds per screen, remembering first-seen order
type screenAccumulator struct {
	order []int64
	rows  map[int64]*domain.ScreenStats
}

func newScreenAccumulator() *screenAccumulator {
	return &screenAccumulator{rows: make(map[int64]*domain.ScreenStats)}
}

func (a *screenAccumulator) add(screenID int64, screenName string, plays, seconds int64) {
	row, ok := a.rows[screenID]
	if !ok {
		row = &domain.ScreenStats{ScreenID: screenID, ScreenName: screenName}
		a.rows[screenID] = row
		a.order = append(a.order, screenID)
	}
	if row.ScreenName == "" {
		row.ScreenName = screenName
	}
	row.Plays += plays
	row.Seconds += seconds
}

// result orders screens by seconds descending, ties keep first-seen order
func (a *screenAccumulator) result() []domain.ScreenStats {
	out := make([]domain.ScreenStats, 0, len(a.order))
	for _, id := range a.order {
		row := *a.rows[id]
		row.ScreenName = domain.ScreenLabel(row.ScreenID, row.ScreenName)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seconds > out[j].Seconds
	})
	return out
}

func totals(rows []domain.ScreenStats) (plays, seconds int64) {
	for _, r := range rows {
		plays += r.Plays
		seconds += r.Seconds
	}
	return plays, seconds
}
