package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const observationSelect = `SELECT
		o.id, o.species_id, o.region_id, o.occurrence_type,
		s.scientific_name, s.name_en, s.name_fi, s.code
	FROM observations o
	JOIN species s ON s.id = o.species_id`

// ObservationDatabaseAdapter implements domain.ObservationRepository using sqlx
type ObservationDatabaseAdapter struct {
	db DBTX
}

// NewObservationDatabaseAdapter creates a new instance of ObservationDatabaseAdapter
func NewObservationDatabaseAdapter(db *sqlx.DB) domain.ObservationRepository {
	return &ObservationDatabaseAdapter{db: db}
}

// Upsert implements domain.ObservationRepository
func (a *ObservationDatabaseAdapter) Upsert(ctx context.Context, speciesID, regionID int64) error {
	query := `MERGE INTO observations t
	USING (SELECT :1 AS species_id, :2 AS region_id FROM dual) s
	ON (t.species_id = s.species_id AND t.region_id = s.region_id)
	WHEN NOT MATCHED THEN INSERT (species_id, region_id) VALUES (s.species_id, s.region_id)`

	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, speciesID, regionID); err != nil {
		return fmt.Errorf("failed to upsert observation of species %d in region %d: %w", speciesID, regionID, err)
	}
	return nil
}

// GetByID implements domain.ObservationRepository
func (a *ObservationDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Observation, error) {
	var row models.ObservationWithSpecies
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, observationSelect+"\n\tWHERE o.id = :1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get observation by ID %d: %w", id, err)
	}
	return toDomainObservation(&row), nil
}

// ListUnannotated implements domain.ObservationRepository
func (a *ObservationDatabaseAdapter) ListUnannotated(ctx context.Context, regionID int64, userID string) ([]*domain.Observation, error) {
	query := observationSelect + `
	WHERE o.region_id = :1
	AND o.occurrence_type IS NULL
	AND NOT EXISTS (
		SELECT 1 FROM observation_annotations oa
		WHERE oa.observation_id = o.id AND oa.user_id = :2
	)
	ORDER BY s.id`

	var rows []models.ObservationWithSpecies
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, regionID, userID); err != nil {
		return nil, fmt.Errorf("failed to list unannotated observations in region %d: %w", regionID, err)
	}
	observations := make([]*domain.Observation, 0, len(rows))
	for i := range rows {
		observations = append(observations, toDomainObservation(&rows[i]))
	}
	return observations, nil
}

// SaveAnnotation implements domain.ObservationRepository
func (a *ObservationDatabaseAdapter) SaveAnnotation(ctx context.Context, annotation *domain.ObservationAnnotation) (bool, error) {
	if annotation.CreatedAt.IsZero() {
		annotation.CreatedAt = time.Now()
	}
	query := `INSERT INTO observation_annotations (observation_id, user_id, occurrence_type, created_at)
	VALUES (:1, :2, :3, :4)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		annotation.ObservationID,
		annotation.UserID,
		string(annotation.OccurrenceType),
		annotation.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save annotation of observation %d: %w", annotation.ObservationID, err)
	}
	return true, nil
}

// SetOccurrenceType implements domain.ObservationRepository
func (a *ObservationDatabaseAdapter) SetOccurrenceType(ctx context.Context, observationID int64, occurrenceType domain.OccurrenceType) error {
	query := `UPDATE observations SET occurrence_type = :1 WHERE id = :2`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, string(occurrenceType), observationID)
	if err != nil {
		return fmt.Errorf("failed to set occurrence type of observation %d: %w", observationID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("observation with ID %d not found", observationID)
	}
	return nil
}
