package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/rulebook/internal/model"
)

// SQLiteStore implements Library using a local SQLite database.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ Library = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: an in-memory database is private to its connection,
	// and the editor never writes concurrently.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// SaveExport inserts a new export. Generates a UUID if ID is empty.
func (s *SQLiteStore) SaveExport(ctx context.Context, e model.Export) (model.Export, error) {
	if e.Body == "" {
		return model.Export{}, fmt.Errorf("export body must not be empty")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ExportedAt.IsZero() {
		e.ExportedAt = s.now()
	}
	e.ExportedAt = e.ExportedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO exports (
			id, title, version, rule_count, point_count, exported_at, body
		) VALUES (
			:id, :title, :version, :rule_count, :point_count, :exported_at, :body
		)`, e)
	if err != nil {
		return model.Export{}, fmt.Errorf("saving export %s: %w", e.ID, err)
	}
	return e, nil
}

// ListExports returns up to limit exports, newest first, with empty bodies.
func (s *SQLiteStore) ListExports(ctx context.Context, limit int) ([]model.Export, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	exports := []model.Export{}
	err := s.db.SelectContext(ctx, &exports, `
		SELECT id, title, version, rule_count, point_count, exported_at, '' AS body
		FROM exports
		ORDER BY exported_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	return exports, nil
}

// GetExport retrieves a single export, including its body.
func (s *SQLiteStore) GetExport(ctx context.Context, id string) (*model.Export, error) {
	var e model.Export
	err := s.db.GetContext(ctx, &e, "SELECT * FROM exports WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting export %s: %w", id, err)
	}
	return &e, nil
}

// DeleteExport removes an export by ID.
func (s *SQLiteStore) DeleteExport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM exports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting export %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("export %s: %w", id, ErrNotFound)
	}
	return nil
}
