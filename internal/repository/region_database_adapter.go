package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/repository/models"
	"birdsong-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const regionWithAncestorsSelect = `SELECT
		r.id, r.code, r.name_en, r.name_fi, r.parent_id,
		p.code AS parent_code, p.name_en AS parent_name_en, p.name_fi AS parent_name_fi,
		p.parent_id AS grandparent_id,
		g.code AS grandparent_code, g.name_en AS grandparent_name_en, g.name_fi AS grandparent_name_fi
	FROM regions r
	LEFT JOIN regions p ON p.id = r.parent_id
	LEFT JOIN regions g ON g.id = p.parent_id`

// RegionDatabaseAdapter implements domain.RegionRepository using sqlx
type RegionDatabaseAdapter struct {
	db DBTX
}

// NewRegionDatabaseAdapter creates a new instance of RegionDatabaseAdapter
func NewRegionDatabaseAdapter(db *sqlx.DB) domain.RegionRepository {
	return &RegionDatabaseAdapter{db: db}
}

// ListWithObservations implements domain.RegionRepository
func (a *RegionDatabaseAdapter) ListWithObservations(ctx context.Context) ([]*domain.Region, error) {
	query := regionWithAncestorsSelect + `
	WHERE EXISTS (SELECT 1 FROM observations o WHERE o.region_id = r.id)
	ORDER BY r.id`

	var rows []models.RegionWithAncestors
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list regions with observations: %w", err)
	}

	regions := make([]*domain.Region, 0, len(rows))
	for i := range rows {
		regions = append(regions, toDomainRegionWithAncestors(&rows[i]))
	}
	return regions, nil
}

func (a *RegionDatabaseAdapter) getOne(ctx context.Context, where string, arg interface{}) (*domain.Region, error) {
	var row models.RegionWithAncestors
	query := regionWithAncestorsSelect + "\n\tWHERE " + where
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainRegionWithAncestors(&row), nil
}

// GetByID implements domain.RegionRepository
func (a *RegionDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Region, error) {
	region, err := a.getOne(ctx, "r.id = :1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get region by ID %d: %w", id, err)
	}
	return region, nil
}

// GetByCode implements domain.RegionRepository
func (a *RegionDatabaseAdapter) GetByCode(ctx context.Context, code string) (*domain.Region, error) {
	region, err := a.getOne(ctx, "r.code = :1", code)
	if err != nil {
		return nil, fmt.Errorf("failed to get region by code %s: %w", code, err)
	}
	return region, nil
}

// Upsert implements domain.RegionRepository
func (a *RegionDatabaseAdapter) Upsert(ctx context.Context, region *domain.Region) error {
	if region == nil {
		return fmt.Errorf("cannot upsert nil region")
	}
	exec := GetExecutor(ctx, a.db)

	query := `MERGE INTO regions r
	USING (SELECT :1 AS code, :2 AS name_en, :3 AS name_fi, :4 AS parent_id FROM dual) s
	ON (r.code = s.code)
	WHEN MATCHED THEN UPDATE SET
		r.name_en = s.name_en,
		r.name_fi = NVL(s.name_fi, r.name_fi),
		r.parent_id = NVL(s.parent_id, r.parent_id)
	WHEN NOT MATCHED THEN INSERT (code, name_en, name_fi, parent_id)
		VALUES (s.code, s.name_en, s.name_fi, s.parent_id)`

	_, err := exec.ExecContext(ctx, query,
		region.Code,
		region.Names.EN,
		util.StringToNullString(region.Names.FI),
		util.Int64PtrToNullInt64(region.ParentID),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert region %s: %w", region.Code, err)
	}

	var id int64
	if err := exec.GetContext(ctx, &id, `SELECT id FROM regions WHERE code = :1`, region.Code); err != nil {
		return fmt.Errorf("failed to read id of region %s: %w", region.Code, err)
	}
	region.ID = id
	return nil
}
