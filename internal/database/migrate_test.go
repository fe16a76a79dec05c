package database

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"birdsong-quiz/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMigratorTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"migrations/000001_init.up.sql":   {Data: []byte("-- first\nCREATE TABLE a (\n  id NUMBER\n);\n\nCREATE TABLE b (id NUMBER);\n")},
		"migrations/000001_init.down.sql": {Data: []byte("DROP TABLE b;\nDROP TABLE a;\n")},
		"migrations/000002_more.up.sql":   {Data: []byte("CREATE TABLE c (id NUMBER);\n")},
		"migrations/000002_more.down.sql": {Data: []byte("DROP TABLE c;\n")},
	}
}

func expectVersionTable(mock sqlmock.Sqlmock, exists bool, applied ...uint) {
	count := 0
	if exists {
		count = 1
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables WHERE table_name = :1")).
		WithArgs("SCHEMA_MIGRATIONS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
	if !exists {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE schema_migrations")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	rows := sqlmock.NewRows([]string{"version"})
	for _, v := range applied {
		rows.AddRow(v)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations ORDER BY version")).WillReturnRows(rows)
}

func TestMigrator_UpFromScratch(t *testing.T) {
	db, mock := setupMigratorTestDB(t)
	m, err := NewMigrator(db, testMigrations(), "migrations")
	require.NoError(t, err)
	defer m.Close()

	expectVersionTable(mock, false)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)")).
		WithArgs(1, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE c (id NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs(2, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	ran, err := m.Up(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_UpSkipsApplied(t *testing.T) {
	db, mock := setupMigratorTestDB(t)
	m, err := NewMigrator(db, testMigrations(), "migrations")
	require.NoError(t, err)

	expectVersionTable(mock, true, 1)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE c (id NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs(2, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	ran, err := m.Up(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_DownOneStep(t *testing.T) {
	db, mock := setupMigratorTestDB(t)
	m, err := NewMigrator(db, testMigrations(), "migrations")
	require.NoError(t, err)

	expectVersionTable(mock, true, 1, 2)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE c")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema_migrations WHERE version = :1")).
		WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))

	reverted, err := m.Down(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, reverted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements("-- comment\nCREATE TABLE a (\n  id NUMBER\n);\n\nDROP TABLE b;\nSELECT 1 FROM dual")
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (\n  id NUMBER\n)", stmts[0])
	assert.Equal(t, "DROP TABLE b", stmts[1])
	assert.Equal(t, "SELECT 1 FROM dual", stmts[2])
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	db, _ := setupMigratorTestDB(t)
	m, err := NewMigrator(db, database.Migrations, database.MigrationsDir)
	require.NoError(t, err)
	versions, err := m.availableVersions()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, versions)

	for _, v := range versions {
		up, _, err := m.source.ReadUp(v)
		require.NoError(t, err)
		up.Close()
		down, _, err := m.source.ReadDown(v)
		require.NoError(t, err)
		down.Close()
	}
}
