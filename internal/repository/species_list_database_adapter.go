package repository

import (
	"context"
	"fmt"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// SpeciesListDatabaseAdapter implements domain.SpeciesListRepository using sqlx.
// Save issues several statements; run it inside a transaction.
type SpeciesListDatabaseAdapter struct {
	db DBTX
}

// NewSpeciesListDatabaseAdapter creates a new instance of SpeciesListDatabaseAdapter
func NewSpeciesListDatabaseAdapter(db *sqlx.DB) domain.SpeciesListRepository {
	return &SpeciesListDatabaseAdapter{db: db}
}

// Save implements domain.SpeciesListRepository
func (a *SpeciesListDatabaseAdapter) Save(ctx context.Context, list *domain.SpeciesList) error {
	if list == nil {
		return fmt.Errorf("cannot save nil species list")
	}
	exec := GetExecutor(ctx, a.db)
	owner := util.StringPtrToNullString(list.OwnerID)

	merge := `MERGE INTO species_lists t
	USING (SELECT :1 AS name, :2 AS owner_id, :3 AS official, :4 AS beginner FROM dual) s
	ON (t.name = s.name AND NVL(t.owner_id, '-') = NVL(s.owner_id, '-'))
	WHEN MATCHED THEN UPDATE SET t.official = s.official, t.beginner = s.beginner
	WHEN NOT MATCHED THEN INSERT (name, owner_id, official, beginner)
		VALUES (s.name, s.owner_id, s.official, s.beginner)`
	if _, err := exec.ExecContext(ctx, merge, list.Name, owner,
		util.BoolToNumber(list.Official), util.BoolToNumber(list.Beginner)); err != nil {
		return fmt.Errorf("failed to save species list %s: %w", list.Name, err)
	}

	var id int64
	selectID := `SELECT id FROM species_lists WHERE name = :1 AND NVL(owner_id, '-') = NVL(:2, '-')`
	if err := exec.GetContext(ctx, &id, selectID, list.Name, owner); err != nil {
		return fmt.Errorf("failed to read id of species list %s: %w", list.Name, err)
	}
	list.ID = id

	if _, err := exec.ExecContext(ctx, `DELETE FROM species_list_species WHERE list_id = :1`, id); err != nil {
		return fmt.Errorf("failed to clear species of list %d: %w", id, err)
	}
	for _, speciesID := range list.SpeciesIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO species_list_species (list_id, species_id) VALUES (:1, :2)`, id, speciesID); err != nil {
			return fmt.Errorf("failed to add species %d to list %d: %w", speciesID, id, err)
		}
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM species_list_regions WHERE list_id = :1`, id); err != nil {
		return fmt.Errorf("failed to clear regions of list %d: %w", id, err)
	}
	for _, regionID := range list.RegionIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO species_list_regions (list_id, region_id) VALUES (:1, :2)`, id, regionID); err != nil {
			return fmt.Errorf("failed to add region %d to list %d: %w", regionID, id, err)
		}
	}
	return nil
}
