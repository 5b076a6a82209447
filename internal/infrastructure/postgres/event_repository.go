package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signagestats/internal/domain"

	"github.com/jmoiron/sqlx"
)

// EventRepository reads raw play events from the "EventLog" table
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

type eventRow struct {
	ID         int64          `db:"id"`
	AdID       sql.NullInt64  `db:"ad_id"`
	ScreenID   sql.NullInt64  `db:"screen_id"`
	ScreenName sql.NullString `db:"screen_name"`
	Start      sql.NullTime   `db:"start"`
	End        sql.NullTime   `db:"end"`
}

const eventSelect = `
	SELECT e.id, e.mediaassetid AS ad_id, e.screenid AS screen_id, sc.name AS screen_name,
	       e."start" AS start, e."end" AS "end"
	FROM "EventLog" e
	LEFT JOIN "Screen" sc ON sc.id = e.screenid`

func (r *EventRepository) ListByAd(ctx context.Context, adID int64) ([]domain.PlayEvent, error) {
	return r.query(ctx, eventSelect+` WHERE e.mediaassetid = $1 ORDER BY e."start", e.id`, adID)
}

func (r *EventRepository) ListByAdAndStart(ctx context.Context, adID int64, from, to time.Time) ([]domain.PlayEvent, error) {
	return r.query(ctx, eventSelect+`
		WHERE e.mediaassetid = $1
		  AND e."start" >= $2
		  AND e."start" < $3
		ORDER BY e."start", e.id`, adID, from, to)
}

func (r *EventRepository) ListByStart(ctx context.Context, from, to time.Time) ([]domain.PlayEvent, error) {
	return r.query(ctx, eventSelect+`
		WHERE e."start" >= $1
		  AND e."start" < $2
		ORDER BY e."start", e.id`, from, to)
}

type lastSeenRow struct {
	ScreenID   int64          `db:"screen_id"`
	ScreenName sql.NullString `db:"screen_name"`
	LastSeen   sql.NullTime   `db:"last_seen"`
}

func (r *EventRepository) LastSeenByScreen(ctx context.Context) ([]domain.ScreenLastSeen, error) {
	var rows []lastSeenRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.id AS screen_id, s.name AS screen_name,
		       (SELECT MAX(e."start") FROM "EventLog" e WHERE e.screenid = s.id) AS last_seen
		FROM "Screen" s
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query screen activity: %w", err)
	}

	out := make([]domain.ScreenLastSeen, len(rows))
	for i, row := range rows {
		out[i] = domain.ScreenLastSeen{ScreenID: row.ScreenID, ScreenName: row.ScreenName.String}
		if row.LastSeen.Valid {
			t := localWallClock(row.LastSeen.Time)
			out[i].LastSeen = &t
		}
	}
	return out, nil
}

// query drops rows without a start timestamp, they cannot be placed in time
func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]domain.PlayEvent, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	events := make([]domain.PlayEvent, 0, len(rows))
	for _, row := range rows {
		if !row.Start.Valid {
			continue
		}
		e := domain.PlayEvent{
			ID:         row.ID,
			ScreenName: row.ScreenName.String,
			Start:      row.Start.Time,
		}
		if row.AdID.Valid {
			id := row.AdID.Int64
			e.AdID = &id
		}
		if row.ScreenID.Valid {
			id := row.ScreenID.Int64
			e.ScreenID = &id
		}
		if row.End.Valid {
			end := row.End.Time
			e.End = &end
		}
		events = append(events, e)
	}
	return events, nil
}

// EventLog stores local wall-clock timestamps without a zone; the driver labels them UTC.
func localWallClock(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, mo, d, h, mi, sec, t.Nanosecond(), time.Local)
}
