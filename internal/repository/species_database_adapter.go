package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const speciesSelect = `SELECT
		s.id, s.scientific_name, s.name_en, s.name_fi,
		s.taxon_order, s.family, s.genus, s.code
	FROM species s`

// SpeciesDatabaseAdapter implements domain.SpeciesRepository using sqlx
type SpeciesDatabaseAdapter struct {
	db DBTX
}

// NewSpeciesDatabaseAdapter creates a new instance of SpeciesDatabaseAdapter
func NewSpeciesDatabaseAdapter(db *sqlx.DB) domain.SpeciesRepository {
	return &SpeciesDatabaseAdapter{db: db}
}

func (a *SpeciesDatabaseAdapter) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Species, error) {
	var rows []models.Species
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	species := make([]*domain.Species, 0, len(rows))
	for i := range rows {
		species = append(species, toDomainSpecies(&rows[i]))
	}
	return species, nil
}

// ListForRegion implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) ListForRegion(ctx context.Context, regionID int64) ([]*domain.Species, error) {
	query := speciesSelect + `
	WHERE EXISTS (SELECT 1 FROM observations o WHERE o.species_id = s.id AND o.region_id = :1)
	AND EXISTS (SELECT 1 FROM recordings rec WHERE rec.species_id = s.id)
	ORDER BY s.id`

	species, err := a.list(ctx, query, regionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list species for region %d: %w", regionID, err)
	}
	return species, nil
}

// ListBeginnerForRegion implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) ListBeginnerForRegion(ctx context.Context, regionID int64) ([]*domain.Species, error) {
	query := speciesSelect + `
	WHERE EXISTS (SELECT 1 FROM observations o WHERE o.species_id = s.id AND o.region_id = :1)
	AND EXISTS (SELECT 1 FROM recordings rec WHERE rec.species_id = s.id)
	AND EXISTS (
		SELECT 1 FROM species_list_species ls
		JOIN species_lists l ON l.id = ls.list_id
		JOIN species_list_regions lr ON lr.list_id = l.id
		WHERE ls.species_id = s.id AND l.beginner = 1 AND lr.region_id = :2
	)
	ORDER BY s.id`

	species, err := a.list(ctx, query, regionID, regionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list beginner species for region %d: %w", regionID, err)
	}
	return species, nil
}

// ListObservedInRegions implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) ListObservedInRegions(ctx context.Context, regionIDs []int64) ([]*domain.Species, error) {
	if len(regionIDs) == 0 {
		return []*domain.Species{}, nil
	}
	exec := GetExecutor(ctx, a.db)
	query, args, err := inQuery(exec, speciesSelect+`
	WHERE EXISTS (SELECT 1 FROM observations o WHERE o.species_id = s.id AND o.region_id IN (?))
	ORDER BY s.id`, regionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build observed species query: %w", err)
	}

	species, err := a.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list species observed in regions: %w", err)
	}
	return species, nil
}

// ListAll implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) ListAll(ctx context.Context) ([]*domain.Species, error) {
	species, err := a.list(ctx, speciesSelect+"\n\tORDER BY s.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}
	return species, nil
}

// GetByCode implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) GetByCode(ctx context.Context, code string) (*domain.Species, error) {
	var row models.Species
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, speciesSelect+"\n\tWHERE s.code = :1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get species by code %s: %w", code, err)
	}
	return toDomainSpecies(&row), nil
}

// Upsert implements domain.SpeciesRepository
func (a *SpeciesDatabaseAdapter) Upsert(ctx context.Context, species *domain.Species) error {
	m := toModelSpecies(species)
	if m == nil {
		return fmt.Errorf("cannot upsert nil species")
	}
	exec := GetExecutor(ctx, a.db)

	query := `MERGE INTO species t
	USING (SELECT :1 AS scientific_name, :2 AS name_en, :3 AS name_fi, :4 AS taxon_order,
		:5 AS family, :6 AS genus, :7 AS code FROM dual) s
	ON (t.scientific_name = s.scientific_name)
	WHEN MATCHED THEN UPDATE SET
		t.name_en = s.name_en,
		t.name_fi = NVL(s.name_fi, t.name_fi),
		t.taxon_order = NVL(s.taxon_order, t.taxon_order),
		t.family = NVL(s.family, t.family),
		t.genus = NVL(s.genus, t.genus),
		t.code = NVL(s.code, t.code)
	WHEN NOT MATCHED THEN INSERT (scientific_name, name_en, name_fi, taxon_order, family, genus, code)
		VALUES (s.scientific_name, s.name_en, s.name_fi, s.taxon_order, s.family, s.genus, s.code)`

	_, err := exec.ExecContext(ctx, query,
		m.ScientificName, m.NameEN, m.NameFI, m.TaxonOrder, m.Family, m.Genus, m.Code)
	if err != nil {
		return fmt.Errorf("failed to upsert species %s: %w", species.ScientificName, err)
	}

	var id int64
	if err := exec.GetContext(ctx, &id, `SELECT id FROM species WHERE scientific_name = :1`, m.ScientificName); err != nil {
		return fmt.Errorf("failed to read id of species %s: %w", species.ScientificName, err)
	}
	species.ID = id
	return nil
}
