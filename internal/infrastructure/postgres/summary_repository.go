package postgres

import (
	"context"
	"fmt"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"

	"github.com/jmoiron/sqlx"
)

// SummaryRepository is the reports_ads period summary store
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

const upsertSummary = `
	INSERT INTO reports_ads (
		period_type, period_start, period_end, ad_id, screen_id, plays, seconds
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (period_type, period_start, ad_id, screen_id) DO UPDATE SET
		period_end = EXCLUDED.period_end,
		plays      = EXCLUDED.plays,
		seconds    = EXCLUDED.seconds`

// Upsert writes all rows in one transaction, overwriting existing keys
func (r *SummaryRepository) Upsert(ctx context.Context, rows []domain.PeriodSummary) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, upsertSummary)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			string(row.PeriodType),
			clock.DateOnly(row.PeriodStart),
			clock.DateOnly(row.PeriodEnd),
			row.AdID,
			row.ScreenID,
			row.Plays,
			row.Seconds,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert summary %s/%s/%d/%d: %w",
				row.PeriodType, row.PeriodStart.Format(clock.DateLayout), row.AdID, row.ScreenID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type summaryRow struct {
	PeriodType  string    `db:"period_type"`
	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`
	AdID        int64     `db:"ad_id"`
	ScreenID    int64     `db:"screen_id"`
	Plays       int64     `db:"plays"`
	Seconds     int64     `db:"seconds"`
}

func (r *SummaryRepository) ListByPeriod(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.PeriodSummary, error) {
	var rows []summaryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT period_type, period_start, period_end, ad_id, screen_id, plays, seconds
		FROM reports_ads
		WHERE period_type = $1
		  AND period_start >= $2
		  AND period_start <= $3
		ORDER BY period_start, ad_id, screen_id`,
		string(periodType), clock.DateOnly(from), clock.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s summaries: %w", periodType, err)
	}

	out := make([]domain.PeriodSummary, len(rows))
	for i, row := range rows {
		out[i] = domain.PeriodSummary{
			PeriodType:  domain.PeriodType(row.PeriodType),
			PeriodStart: clock.DateOnly(row.PeriodStart),
			PeriodEnd:   clock.DateOnly(row.PeriodEnd),
			AdID:        row.AdID,
			ScreenID:    row.ScreenID,
			Plays:       row.Plays,
			Seconds:     row.Seconds,
		}
	}
	return out, nil
}
