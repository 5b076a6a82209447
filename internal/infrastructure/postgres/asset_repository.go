package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"signagestats/internal/domain"

	"github.com/jmoiron/sqlx"
)

// AssetRepository reads advertisements from the "MediaAsset" table
type AssetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

type assetRow struct {
	ID          int64           `db:"id"`
	Name        sql.NullString  `db:"name"`
	CompanyName sql.NullString  `db:"companyname"`
	Duration    sql.NullFloat64 `db:"duration"`
	Active      sql.NullBool    `db:"active"`
}

func (r assetRow) toDomain() domain.MediaAsset {
	return domain.MediaAsset{
		ID:              r.ID,
		Name:            r.Name.String,
		CompanyName:     r.CompanyName.String,
		DurationSeconds: r.Duration.Float64,
		Active:          r.Active.Bool,
	}
}

const assetColumns = `id, name, companyname, duration, active`

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*domain.MediaAsset, error) {
	var row assetRow
	err := r.db.GetContext(ctx, &row, `SELECT `+assetColumns+` FROM "MediaAsset" WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ad %d: %w", id, domain.ErrAdNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad %d: %w", id, err)
	}

	asset := row.toDomain()
	return &asset, nil
}

func (r *AssetRepository) List(ctx context.Context) ([]domain.MediaAsset, error) {
	var rows []assetRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+assetColumns+` FROM "MediaAsset" ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}

	assets := make([]domain.MediaAsset, len(rows))
	for i, row := range rows {
		assets[i] = row.toDomain()
	}
	return assets, nil
}
