package usecase

import (
	"context"
	"testing"

	"signagestats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEvents(t *testing.T) {
	t.Run("sums plays and seconds per screen", func(t *testing.T) {
		events := []domain.PlayEvent{
			event(1, 7, "2025-03-10 10:00:00", 10),
			event(1, 7, "2025-03-10 11:00:00", 20),
			event(1, 7, "2025-03-10 12:00:00", 30),
		}
		events[0].ScreenName = "Lobby"

		stats := AggregateEvents(1, events, false)
		assert.Equal(t, int64(3), stats.TotalPlays)
		assert.Equal(t, int64(60), stats.TotalSeconds)
		assert.Equal(t, []domain.ScreenStats{{ScreenID: 7, ScreenName: "Lobby", Plays: 3, Seconds: 60}}, stats.PerScreen)
		assert.Equal(t, 20.0, stats.AverageSecondsPerPlay())
		assert.Nil(t, stats.LifetimeFrom)
	})

	t.Run("events without screen count toward totals only", func(t *testing.T) {
		orphan := event(1, 0, "2025-03-10 10:00:00", 15)
		orphan.ScreenID = nil

		stats := AggregateEvents(1, []domain.PlayEvent{orphan, event(1, 7, "2025-03-10 10:01:00", 5)}, false)
		assert.Equal(t, int64(2), stats.TotalPlays)
		assert.Equal(t, int64(20), stats.TotalSeconds)
		require.Len(t, stats.PerScreen, 1)
		assert.Equal(t, int64(5), stats.PerScreen[0].Seconds)
	})

	t.Run("missing or inverted end counts zero seconds", func(t *testing.T) {
		open := event(1, 7, "2025-03-10 10:00:00", 0)
		open.End = nil
		inverted := event(1, 7, "2025-03-10 10:00:00", -30)

		stats := AggregateEvents(1, []domain.PlayEvent{open, inverted}, false)
		assert.Equal(t, int64(2), stats.TotalPlays)
		assert.Equal(t, int64(0), stats.TotalSeconds)
	})

	t.Run("screens ordered by seconds with a synthesized label", func(t *testing.T) {
		stats := AggregateEvents(1, []domain.PlayEvent{
			event(1, 3, "2025-03-10 10:00:00", 10),
			event(1, 4, "2025-03-10 10:00:00", 40),
			event(1, 5, "2025-03-10 10:00:00", 10),
		}, false)

		require.Len(t, stats.PerScreen, 3)
		assert.Equal(t, int64(4), stats.PerScreen[0].ScreenID)
		assert.Equal(t, "Screen 4", stats.PerScreen[0].ScreenName)
		// ties keep first-seen order
		assert.Equal(t, int64(3), stats.PerScreen[1].ScreenID)
		assert.Equal(t, int64(5), stats.PerScreen[2].ScreenID)
	})

	t.Run("lifetime bounds use start and effective end dates", func(t *testing.T) {
		stats := AggregateEvents(1, []domain.PlayEvent{
			event(1, 7, "2025-03-12 10:00:00", 10),
			event(1, 7, "2025-03-09 23:59:50", 20),
			event(1, 7, "2025-03-15 23:59:55", 10),
		}, true)

		require.NotNil(t, stats.LifetimeFrom)
		require.NotNil(t, stats.LifetimeTo)
		assert.Equal(t, date("2025-03-09"), *stats.LifetimeFrom)
		assert.Equal(t, date("2025-03-16"), *stats.LifetimeTo)
	})

	t.Run("no events", func(t *testing.T) {
		stats := AggregateEvents(1, nil, true)
		assert.Equal(t, int64(0), stats.TotalPlays)
		assert.Empty(t, stats.PerScreen)
		assert.Nil(t, stats.LifetimeFrom)
		assert.Equal(t, 0.0, stats.AverageSecondsPerPlay())
	})
}

func TestEventAggregator_Range(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.StoreScreens(ctx, domain.Screen{ID: 7, Name: "Lobby"})
	f.events.Append(ctx,
		event(1, 7, "2025-03-09 23:59:59", 10),
		event(1, 7, "2025-03-10 00:00:00", 10),
		event(1, 7, "2025-03-11 23:59:59", 20),
		event(1, 7, "2025-03-12 00:00:00", 40),
		event(2, 7, "2025-03-10 12:00:00", 99),
	)
	aggregator := NewEventAggregator(f.events, f.log, f.metrics)

	stats, err := aggregator.Range(ctx, 1, date("2025-03-10"), date("2025-03-11"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPlays)
	assert.Equal(t, int64(30), stats.TotalSeconds)
	require.Len(t, stats.PerScreen, 1)
	assert.Equal(t, "Lobby", stats.PerScreen[0].ScreenName)

	reversed, err := aggregator.Range(ctx, 1, date("2025-03-11"), date("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), reversed.TotalPlays)
	assert.Empty(t, reversed.PerScreen)

	lifetime, err := aggregator.Lifetime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), lifetime.TotalPlays)
	assert.Equal(t, int64(80), lifetime.TotalSeconds)
	assert.Equal(t, date("2025-03-09"), *lifetime.LifetimeFrom)
	assert.Equal(t, date("2025-03-12"), *lifetime.LifetimeTo)
}
