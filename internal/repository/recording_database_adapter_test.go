package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"birdsong-quiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordingColumns = []string{
	"ID", "SPECIES_ID", "URL", "AUDIO_URL", "AUDIO", "RECORDIST", "COUNTRY", "LOCATION",
	"SOUND_TYPE", "LICENSE", "LICENSE_URL", "DOWNLOADED", "CREATED_AT",
}

func TestRecordingDatabaseAdapter_ListBySpeciesIDs(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRecordingDatabaseAdapter(db)
	now := time.Now()

	rows := sqlmock.NewRows(recordingColumns).
		AddRow(1001, 1, "//xeno-canto.org/1001", "https://xeno-canto.org/1001/download", "recordings/1001.mp3",
			"A. Recordist", "Finland", "Helsinki", "song", "CC BY-NC-SA 4.0", "//creativecommons.org/licenses/by-nc-sa/4.0/", 1, now).
		AddRow(1002, 2, "//xeno-canto.org/1002", nil, "recordings/1002.mp3",
			nil, nil, nil, nil, "CC BY 4.0", nil, 0, now)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE species_id IN (?, ?)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(rows)

	recordings, err := repo.ListBySpeciesIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, recordings, 2)
	assert.Equal(t, domain.SoundTypeSong, recordings[0].SoundType)
	assert.True(t, recordings[0].Downloaded)
	assert.False(t, recordings[1].Downloaded)
	assert.Empty(t, recordings[1].AudioURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordingDatabaseAdapter_GetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRecordingDatabaseAdapter(db)

	mock.ExpectQuery(`FROM recordings\s+WHERE id = :1`).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	recording, err := repo.GetByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, recording)
}

func TestRecordingDatabaseAdapter_CountBySpecies(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRecordingDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM recordings WHERE species_id = :1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

	count, err := repo.CountBySpecies(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecordingDatabaseAdapter_Save(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRecordingDatabaseAdapter(db)
	recording := &domain.Recording{
		ID:        1001,
		SpeciesID: 1,
		URL:       "//xeno-canto.org/1001",
		Audio:     "recordings/1001.mp3",
		SoundType: domain.SoundTypeCall,
		License:   "CC BY 4.0",
	}

	mock.ExpectExec(`(?s)MERGE INTO recordings t.*WHEN NOT MATCHED THEN INSERT`).
		WithArgs(int64(1001), int64(1), "//xeno-canto.org/1001", nil, "recordings/1001.mp3",
			nil, nil, nil, "call", "CC BY 4.0", nil, 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), recording))
	assert.False(t, recording.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
