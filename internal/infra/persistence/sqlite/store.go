// Package sqlite persists checklist slots to an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"matcheck/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.ChecklistStore = (*Store)(nil)

const defaultPath = "matcheck.db"

// Store keeps one JSON payload per slot in a single table.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating if needed) the SQLite database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS checklist_state (
		slot TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Driver returns the storage driver identifier.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageSQLite }

// Load returns the goals stored under slot.
func (s *Store) Load(ctx context.Context, slot string) ([]domain.OperatorGoal, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM checklist_state WHERE slot = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GoalsFromPayload(slot, nil, false)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", slot, err)
	}
	return domain.GoalsFromPayload(slot, payload, true)
}

// Save upserts the goals stored under slot in a single transaction.
func (s *Store) Save(ctx context.Context, slot string, goals []domain.OperatorGoal) (retErr error) {
	payload, err := domain.EncodeGoals(goals)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `INSERT INTO checklist_state(slot,payload) VALUES(?,?) ON CONFLICT(slot) DO UPDATE SET payload=excluded.payload`, slot, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", slot, err)
	}
	return tx.Commit()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
