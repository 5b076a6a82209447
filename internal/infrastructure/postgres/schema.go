package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The signage tables are owned by the CMS; only the summary store is created here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS reports_ads (
		id           BIGSERIAL PRIMARY KEY,
		period_type  VARCHAR(16) NOT NULL,
		period_start DATE NOT NULL,
		period_end   DATE NOT NULL,
		ad_id        BIGINT NOT NULL,
		screen_id    BIGINT NOT NULL,
		plays        BIGINT NOT NULL DEFAULT 0,
		seconds      BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reports_ads_key
		ON reports_ads (period_type, period_start, ad_id, screen_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_ads_period
		ON reports_ads (period_type, period_start)`,
}

// EnsureSchema creates the summary table and its conflict key when missing
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
