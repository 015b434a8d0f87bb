package core

import (
	"context"
	"fmt"
	"io"

	"matcheck/internal/blob"
	"matcheck/internal/infra/persistence/memory"
	"matcheck/internal/infra/persistence/object"
)

// ObjectStorageOptions configures the object checklist driver.
type ObjectStorageOptions struct {
	Blob   blob.Options
	Prefix string
}

// StorageOptions selects and configures a checklist store.
//
//	Driver: memory|sqlite|postgres|object (default sqlite)
//	SQLitePath: path to sqlite file (default ./matcheck.db)
//	PostgresDSN: postgres DSN when Driver=postgres
type StorageOptions struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	Object      ObjectStorageOptions
}

// OpenStore returns the ChecklistStore described by opts. Stores holding
// resources implement io.Closer; release them with CloseStore.
func OpenStore(ctx context.Context, opts StorageOptions) (ChecklistStore, error) {
	driver := opts.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		store, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := NewPostgresStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageObject:
		blobs, err := blob.Open(ctx, opts.Object.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		store, err := object.NewStore(blobs, opts.Object.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// CloseStore closes store when it holds resources.
func CloseStore(store ChecklistStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
