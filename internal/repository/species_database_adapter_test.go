package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"birdsong-quiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var speciesColumns = []string{"ID", "SCIENTIFIC_NAME", "NAME_EN", "NAME_FI", "TAXON_ORDER", "FAMILY", "GENUS", "CODE"}

func TestSpeciesDatabaseAdapter_ListForRegion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSpeciesDatabaseAdapter(db)

	rows := sqlmock.NewRows(speciesColumns).
		AddRow(1, "Parus major", "Great Tit", "Talitiainen", "Passeriformes", "Paridae", "Parus", "gretit1").
		AddRow(2, "Cyanistes caeruleus", "Eurasian Blue Tit", nil, nil, nil, nil, nil)
	mock.ExpectQuery(`(?s)FROM species s.*o.region_id = :1.*EXISTS \(SELECT 1 FROM recordings rec WHERE rec.species_id = s.id\)`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	species, err := repo.ListForRegion(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, species, 2)
	assert.Equal(t, "Talitiainen", species[0].Names.FI)
	assert.Equal(t, "gretit1", species[0].Code)
	assert.Equal(t, "Eurasian Blue Tit", species[1].DisplayName(domain.LocaleFI))
	assert.Empty(t, species[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeciesDatabaseAdapter_ListBeginnerForRegion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSpeciesDatabaseAdapter(db)

	mock.ExpectQuery(`(?s)FROM species s.*l.beginner = 1 AND lr.region_id = :2`).
		WithArgs(int64(7), int64(7)).
		WillReturnRows(sqlmock.NewRows(speciesColumns).
			AddRow(1, "Parus major", "Great Tit", "Talitiainen", nil, nil, nil, nil))

	species, err := repo.ListBeginnerForRegion(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, species, 1)
	assert.Equal(t, int64(1), species[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeciesDatabaseAdapter_ListObservedInRegions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSpeciesDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`o.region_id IN (?, ?)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(speciesColumns).
			AddRow(1, "Parus major", "Great Tit", nil, nil, nil, nil, nil))

	species, err := repo.ListObservedInRegions(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, species, 1)

	empty, err := repo.ListObservedInRegions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeciesDatabaseAdapter_GetByCode_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSpeciesDatabaseAdapter(db)

	mock.ExpectQuery(`WHERE s.code = :1`).WithArgs("nosuch").WillReturnError(sql.ErrNoRows)

	species, err := repo.GetByCode(context.Background(), "nosuch")
	assert.NoError(t, err)
	assert.Nil(t, species)
}

func TestSpeciesDatabaseAdapter_Upsert(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSpeciesDatabaseAdapter(db)
	species := &domain.Species{
		ScientificName: "Parus major",
		Names:          domain.LocalizedNames{EN: "Great Tit", FI: "Talitiainen"},
		Family:         "Paridae",
		Code:           "gretit1",
	}

	mock.ExpectExec(`(?s)MERGE INTO species t.*ON \(t.scientific_name = s.scientific_name\)`).
		WithArgs("Parus major", "Great Tit", "Talitiainen", nil, "Paridae", nil, "gretit1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM species WHERE scientific_name = :1`)).
		WithArgs("Parus major").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).AddRow(11))

	require.NoError(t, repo.Upsert(context.Background(), species))
	assert.Equal(t, int64(11), species.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
