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

const recordingSelect = `SELECT
		id, species_id, url, audio_url, audio, recordist, country, location,
		sound_type, license, license_url, downloaded, created_at
	FROM recordings`

// RecordingDatabaseAdapter implements domain.RecordingRepository using sqlx
type RecordingDatabaseAdapter struct {
	db DBTX
}

// NewRecordingDatabaseAdapter creates a new instance of RecordingDatabaseAdapter
func NewRecordingDatabaseAdapter(db *sqlx.DB) domain.RecordingRepository {
	return &RecordingDatabaseAdapter{db: db}
}

// ListBySpeciesIDs implements domain.RecordingRepository
func (a *RecordingDatabaseAdapter) ListBySpeciesIDs(ctx context.Context, speciesIDs []int64) ([]*domain.Recording, error) {
	if len(speciesIDs) == 0 {
		return []*domain.Recording{}, nil
	}
	exec := GetExecutor(ctx, a.db)
	query, args, err := inQuery(exec, recordingSelect+"\n\tWHERE species_id IN (?)\n\tORDER BY species_id, id", speciesIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build recordings query: %w", err)
	}

	var rows []models.Recording
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recordings by species: %w", err)
	}
	recordings := make([]*domain.Recording, 0, len(rows))
	for i := range rows {
		recordings = append(recordings, toDomainRecording(&rows[i]))
	}
	return recordings, nil
}

// GetByID implements domain.RecordingRepository
func (a *RecordingDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Recording, error) {
	var row models.Recording
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, recordingSelect+"\n\tWHERE id = :1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recording by ID %d: %w", id, err)
	}
	return toDomainRecording(&row), nil
}

// CountBySpecies implements domain.RecordingRepository
func (a *RecordingDatabaseAdapter) CountBySpecies(ctx context.Context, speciesID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM recordings WHERE species_id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, speciesID); err != nil {
		return 0, fmt.Errorf("failed to count recordings of species %d: %w", speciesID, err)
	}
	return count, nil
}

// Save implements domain.RecordingRepository
func (a *RecordingDatabaseAdapter) Save(ctx context.Context, recording *domain.Recording) error {
	m := toModelRecording(recording)
	if m == nil {
		return fmt.Errorf("cannot save nil recording")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `MERGE INTO recordings t
	USING (SELECT :1 AS id FROM dual) s
	ON (t.id = s.id)
	WHEN NOT MATCHED THEN INSERT (
		id, species_id, url, audio_url, audio, recordist, country, location,
		sound_type, license, license_url, downloaded, created_at
	) VALUES (
		s.id, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.ID,
		m.SpeciesID,
		m.URL,
		m.AudioURL,
		m.Audio,
		m.Recordist,
		m.Country,
		m.Location,
		m.SoundType,
		m.License,
		m.LicenseURL,
		m.Downloaded,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recording %d: %w", recording.ID, err)
	}
	recording.CreatedAt = m.CreatedAt
	return nil
}
