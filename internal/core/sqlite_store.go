package core

import "matcheck/internal/infra/persistence/sqlite"

// NewSQLiteStore constructs a SQLite-backed checklist store using the
// provided file path (may be empty for default).
func NewSQLiteStore(path string) (*sqlite.Store, error) {
	return sqlite.NewStore(path)
}
