package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"birdsong-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const migrationsTable = "schema_migrations"

// Migrator applies golang-migrate style migration files to Oracle.
// Oracle DDL commits implicitly, so each file runs statement by statement
// and its version is recorded once all of its statements succeed.
type Migrator struct {
	db     *sqlx.DB
	source source.Driver
}

// NewMigrator reads migration files from dir inside fsys.
func NewMigrator(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, source: src}, nil
}

// Close releases the migration source.
func (m *Migrator) Close() error {
	return m.source.Close()
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var count int
	query := `SELECT COUNT(*) FROM user_tables WHERE table_name = :1`
	if err := m.db.GetContext(ctx, &count, query, strings.ToUpper(migrationsTable)); err != nil {
		return fmt.Errorf("failed to check migrations table: %w", err)
	}
	if count > 0 {
		return nil
	}
	ddl := `CREATE TABLE ` + migrationsTable + ` (
		version NUMBER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// AppliedVersions returns the recorded versions in ascending order.
func (m *Migrator) AppliedVersions(ctx context.Context) ([]uint, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var versions []uint
	query := `SELECT version FROM ` + migrationsTable + ` ORDER BY version`
	if err := m.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	return versions, nil
}

func (m *Migrator) availableVersions() ([]uint, error) {
	var versions []uint
	v, err := m.source.First()
	for err == nil {
		versions = append(versions, v)
		v, err = m.source.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read migration versions: %w", err)
	}
	return versions, nil
}

// Up applies pending migrations in ascending order. steps <= 0 applies all of them.
func (m *Migrator) Up(ctx context.Context, steps int) ([]uint, error) {
	applied, err := m.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	available, err := m.availableVersions()
	if err != nil {
		return nil, err
	}

	var ran []uint
	for _, v := range available {
		if done[v] {
			continue
		}
		if steps > 0 && len(ran) >= steps {
			break
		}
		body, identifier, err := m.source.ReadUp(v)
		if err != nil {
			return ran, fmt.Errorf("failed to read up migration %d: %w", v, err)
		}
		if err := m.execFile(ctx, body); err != nil {
			return ran, fmt.Errorf("migration %d (%s) failed: %w", v, identifier, err)
		}
		insert := `INSERT INTO ` + migrationsTable + ` (version, applied_at) VALUES (:1, :2)`
		if _, err := m.db.ExecContext(ctx, insert, v, time.Now()); err != nil {
			return ran, fmt.Errorf("failed to record migration %d: %w", v, err)
		}
		logger.Get().Info("Applied migration", zap.Uint("version", v), zap.String("name", identifier))
		ran = append(ran, v)
	}
	return ran, nil
}

// Down reverts applied migrations in descending order. steps <= 0 reverts all of them.
func (m *Migrator) Down(ctx context.Context, steps int) ([]uint, error) {
	applied, err := m.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(applied, func(i, j int) bool { return applied[i] > applied[j] })

	var reverted []uint
	for _, v := range applied {
		if steps > 0 && len(reverted) >= steps {
			break
		}
		body, identifier, err := m.source.ReadDown(v)
		if err != nil {
			return reverted, fmt.Errorf("failed to read down migration %d: %w", v, err)
		}
		if err := m.execFile(ctx, body); err != nil {
			return reverted, fmt.Errorf("rollback %d (%s) failed: %w", v, identifier, err)
		}
		del := `DELETE FROM ` + migrationsTable + ` WHERE version = :1`
		if _, err := m.db.ExecContext(ctx, del, v); err != nil {
			return reverted, fmt.Errorf("failed to unrecord migration %d: %w", v, err)
		}
		logger.Get().Info("Reverted migration", zap.Uint("version", v), zap.String("name", identifier))
		reverted = append(reverted, v)
	}
	return reverted, nil
}

func (m *Migrator) execFile(ctx context.Context, body io.ReadCloser) error {
	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	for _, stmt := range SplitStatements(string(content)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// SplitStatements splits a migration file on semicolons ending a line.
// Oracle rejects a trailing semicolon, so it is removed. Comment-only lines are dropped.
func SplitStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()
	return statements
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
