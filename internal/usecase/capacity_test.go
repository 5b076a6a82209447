package usecase

import (
	"context"
	"testing"

	"signagestats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopSeconds(t *testing.T) {
	playlist := []domain.Schedule{{DurationSeconds: 10}, {DurationSeconds: 15}}

	assert.Equal(t, 25.0, LoopSeconds(playlist, FillerPolicy{}))
	assert.Equal(t, 45.0, LoopSeconds(playlist, FillerPolicy{SpotCount: 2, SpotSeconds: 10}))
	assert.Equal(t, 0.0, LoopSeconds(nil, FillerPolicy{SpotCount: 2, SpotSeconds: 10}))
	assert.Equal(t, 0.0, LoopSeconds([]domain.Schedule{{DurationSeconds: 0}}, FillerPolicy{SpotCount: 1, SpotSeconds: 5}))
}

func TestLoopsPerDay(t *testing.T) {
	assert.Equal(t, int64(2), LoopsPerDay(40, 20))
	assert.Equal(t, int64(2), LoopsPerDay(59, 20))
	assert.Equal(t, int64(0), LoopsPerDay(15, 20))
	assert.Equal(t, int64(0), LoopsPerDay(40, 0))
	assert.Equal(t, int64(0), LoopsPerDay(0, 20))
}

func TestCapacityEstimator_Estimate(t *testing.T) {
	ctx := context.Background()
	day := date("2025-03-10")

	t.Run("two ads share a forty second window", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), ScreenName: "Lobby", FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:40"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 2, ScreenID: id(7), ScreenName: "Lobby", FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:40"), DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		for _, adID := range []int64{1, 2} {
			rows, err := estimator.Estimate(ctx, adID, day, day)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, domain.ScreenStats{ScreenID: 7, ScreenName: "Lobby", Plays: 2, Seconds: 20}, rows[0])
		}
	})

	t.Run("loop longer than window yields zero plays", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:15"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 2, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, day, day)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(0), rows[0].Plays)
		assert.Equal(t, int64(0), rows[0].Seconds)
		assert.Equal(t, "Screen 7", rows[0].ScreenName)
	})

	t.Run("filler overhead lengthens the loop", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:40"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 2, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:40"), DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{SpotCount: 2, SpotSeconds: 10}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, day, day)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(1), rows[0].Plays)
	})

	t.Run("playlist is recomputed per day", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-11"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:40"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 2, ScreenID: id(7), FromDate: datePtr("2025-03-11"), ToDate: datePtr("2025-03-11"),
				DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, date("2025-03-10"), date("2025-03-11"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		// 40/10 on the first day, 40/20 on the second
		assert.Equal(t, int64(6), rows[0].Plays)
		assert.Equal(t, int64(60), rows[0].Seconds)
	})

	t.Run("range is clipped to the schedule window", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-11"),
				FromTime: tod("10:00:00"), ToTime: tod("10:01:00"), DurationSeconds: 30},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, date("2025-03-01"), date("2025-03-31"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(4), rows[0].Plays)
		assert.Equal(t, int64(120), rows[0].Seconds)
	})

	t.Run("rows without dates or screen are skipped", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-10"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 1, FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"), DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, day, day)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("reversed range is empty", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), FromDate: datePtr("2025-03-01"), ToDate: datePtr("2025-03-31"), DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, date("2025-03-12"), date("2025-03-10"))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("screens ordered by seconds", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.Store(ctx,
			domain.Schedule{ID: 1, AdID: 1, ScreenID: id(1), ScreenName: "Small", FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:00:10"), DurationSeconds: 10},
			domain.Schedule{ID: 2, AdID: 1, ScreenID: id(2), ScreenName: "Big", FromDate: datePtr("2025-03-10"), ToDate: datePtr("2025-03-10"),
				FromTime: tod("10:00:00"), ToTime: tod("10:01:00"), DurationSeconds: 10},
		)
		estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)

		rows, err := estimator.Estimate(ctx, 1, day, day)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Big", rows[0].ScreenName)
		assert.Equal(t, int64(6), rows[0].Plays)
		assert.Equal(t, "Small", rows[1].ScreenName)
		assert.Equal(t, int64(1), rows[1].Plays)
	})
}
