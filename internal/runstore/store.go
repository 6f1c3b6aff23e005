// Package runstore keeps the history of training runs in an embedded
// SQLite database, so past metrics stay queryable after artifacts are
// overwritten by newer runs.
package runstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one row of training run history.
type Run struct {
	ID           string    `db:"id"            json:"id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	MSETest      float64   `db:"mse_test"      json:"mse_teste"`
	R2Test       float64   `db:"r2_test"       json:"r2_teste"`
	BestParams   string    `db:"best_params"   json:"best_params"`
	TrainRows    int       `db:"train_rows"    json:"train_rows"`
	TestRows     int       `db:"test_rows"     json:"test_rows"`
	FeatureCount int       `db:"feature_count" json:"feature_count"`
	DurationMS   int64     `db:"duration_ms"   json:"duration_ms"`
}

// Store wraps the SQLite run history database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the run store at path and applies
// pending schema migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create run store directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// InsertRun records one completed training run.
func (s *Store) InsertRun(ctx context.Context, run Run) error {
	const q = `
		INSERT INTO training_runs
			(id, created_at, mse_test, r2_test, best_params, train_rows, test_rows, feature_count, duration_ms)
		VALUES
			(:id, :created_at, :mse_test, :r2_test, :best_params, :train_rows, :test_rows, :feature_count, :duration_ms)`
	if _, err := s.db.NamedExecContext(ctx, q, run); err != nil {
		return fmt.Errorf("failed to insert training run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	runs := []Run{}
	const q = `
		SELECT id, created_at, mse_test, r2_test, best_params, train_rows, test_rows, feature_count, duration_ms
		FROM training_runs
		ORDER BY created_at DESC, id
		LIMIT ?`
	if err := s.db.SelectContext(ctx, &runs, q, limit); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
