// Package object persists checklist slots as JSON documents in a blob store
// (local directory, S3 bucket or memory).
package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"matcheck/internal/blob"
	"matcheck/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.ChecklistStore = (*Store)(nil)

const contentType = "application/json"

// Store maps each slot to the object <prefix><slot>.json.
type Store struct {
	blobs  blob.Store
	prefix string
}

// NewStore wraps blobs. prefix is prepended verbatim to every object key.
func NewStore(blobs blob.Store, prefix string) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("object store requires a blob store")
	}
	return &Store{blobs: blobs, prefix: prefix}, nil
}

// Driver returns the storage driver identifier.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageObject }

// Blobs exposes the underlying blob store.
func (s *Store) Blobs() blob.Store { return s.blobs }

// Key returns the object key holding slot.
func (s *Store) Key(slot string) string { return s.prefix + slot + ".json" }

// Load returns the goals stored under slot.
func (s *Store) Load(ctx context.Context, slot string) ([]domain.OperatorGoal, error) {
	key := s.Key(slot)
	_, rc, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return domain.GoalsFromPayload(slot, nil, false)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return domain.GoalsFromPayload(slot, payload, true)
}

// Save replaces the object holding slot.
func (s *Store) Save(ctx context.Context, slot string, goals []domain.OperatorGoal) error {
	payload, err := domain.EncodeGoals(goals)
	if err != nil {
		return err
	}
	key := s.Key(slot)
	opts := blob.PutOptions{ContentType: contentType, Metadata: map[string]string{"slot": slot}}
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(payload), opts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
