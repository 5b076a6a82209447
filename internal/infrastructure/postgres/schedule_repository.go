package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"

	"github.com/jmoiron/sqlx"
)

// ScheduleRepository reads the "Schedule" table joined with screen names
type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleRow struct {
	ID         int64           `db:"id"`
	AdID       int64           `db:"ad_id"`
	ScreenID   sql.NullInt64   `db:"screen_id"`
	ScreenName sql.NullString  `db:"screen_name"`
	FromDate   sql.NullTime    `db:"fromdate"`
	ToDate     sql.NullTime    `db:"todate"`
	FromTime   sql.NullString  `db:"fromtime"`
	ToTime     sql.NullString  `db:"totime"`
	Duration   sql.NullFloat64 `db:"duration"`
}

func (r scheduleRow) toDomain() (domain.Schedule, error) {
	s := domain.Schedule{
		ID:              r.ID,
		AdID:            r.AdID,
		ScreenName:      r.ScreenName.String,
		DurationSeconds: r.Duration.Float64,
	}
	if r.ScreenID.Valid {
		id := r.ScreenID.Int64
		s.ScreenID = &id
	}
	if r.FromDate.Valid {
		d := clock.DateOnly(r.FromDate.Time)
		s.FromDate = &d
	}
	if r.ToDate.Valid {
		d := clock.DateOnly(r.ToDate.Time)
		s.ToDate = &d
	}

	var err error
	if s.FromTime, err = parseTime(r.FromTime); err != nil {
		return s, fmt.Errorf("schedule %d fromtime: %w", r.ID, err)
	}
	if s.ToTime, err = parseTime(r.ToTime); err != nil {
		return s, fmt.Errorf("schedule %d totime: %w", r.ID, err)
	}
	return s, nil
}

func parseTime(v sql.NullString) (*clock.TimeOfDay, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := clock.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const scheduleSelect = `
	SELECT s.id, s.mediaassetid AS ad_id, s.screenid AS screen_id, sc.name AS screen_name,
	       s.fromdate, s.todate,
	       to_char(s.fromtime, 'HH24:MI:SS') AS fromtime,
	       to_char(s.totime, 'HH24:MI:SS') AS totime,
	       s.duration
	FROM "Schedule" s
	LEFT JOIN "Screen" sc ON sc.id = s.screenid`

func (r *ScheduleRepository) ListByAd(ctx context.Context, adID int64) ([]domain.Schedule, error) {
	return r.query(ctx, scheduleSelect+` WHERE s.mediaassetid = $1 ORDER BY s.id`, adID)
}

func (r *ScheduleRepository) ListByScreen(ctx context.Context, screenID int64) ([]domain.Schedule, error) {
	return r.query(ctx, scheduleSelect+` WHERE s.screenid = $1 ORDER BY s.id`, screenID)
}

func (r *ScheduleRepository) ListByAdAndDateRange(ctx context.Context, adID int64, from, to time.Time) ([]domain.Schedule, error) {
	return r.query(ctx, scheduleSelect+`
		WHERE s.mediaassetid = $1
		  AND s.fromdate <= $3
		  AND s.todate >= $2
		ORDER BY s.id`, adID, clock.DateOnly(from), clock.DateOnly(to))
}

func (r *ScheduleRepository) ListActiveOnScreen(ctx context.Context, screenID int64, day time.Time) ([]domain.Schedule, error) {
	return r.query(ctx, scheduleSelect+`
		WHERE s.screenid = $1
		  AND s.fromdate <= $2
		  AND s.todate >= $2
		ORDER BY s.id`, screenID, clock.DateOnly(day))
}

func (r *ScheduleRepository) query(ctx context.Context, query string, args ...any) ([]domain.Schedule, error) {
	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}

	schedules := make([]domain.Schedule, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}
