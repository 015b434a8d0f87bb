package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// StorageDriver identifies a concrete durable store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageObject   StorageDriver = "object"   // object store (fs, s3, memory)
)

// DefaultSlot is the storage key holding the checklist. It matches the key the
// browser version of the checklist used for local storage.
const DefaultSlot = "operatorGoals"

// ErrUndecodablePayload marks a stored payload that is not a goal collection.
// Callers treat it as an absent slot rather than a storage failure.
var ErrUndecodablePayload = errors.New("checklist payload is not a goal collection")

// ChecklistStore persists the ordered goal collection under a slot key.
// Load returns an empty collection when the slot is absent, and an error
// wrapping ErrUndecodablePayload when its payload cannot be decoded.
type ChecklistStore interface {
	Load(ctx context.Context, slot string) ([]OperatorGoal, error)
	Save(ctx context.Context, slot string, goals []OperatorGoal) error
	Driver() StorageDriver
}

// RecipeCatalog provides the goals available for each operator.
type RecipeCatalog interface {
	OperatorNames() []string
	Goals(operatorName string) ([]GoalSpec, bool)
}

// EncodeGoals renders the collection in the persisted wire shape. Collections
// and item lists are always arrays, never null.
func EncodeGoals(goals []OperatorGoal) ([]byte, error) {
	return json.Marshal(CloneGoals(goals))
}

// DecodeGoals parses a persisted payload. The boolean is false when the payload
// is empty or not a JSON array of goal records; callers treat that as absent.
func DecodeGoals(payload []byte) ([]OperatorGoal, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	var goals []OperatorGoal
	if err := json.Unmarshal(payload, &goals); err != nil {
		return nil, false
	}
	return goals, true
}

// GoalsFromPayload converts a raw slot payload into goals for ChecklistStore
// implementations. A missing slot yields an empty collection.
func GoalsFromPayload(slot string, payload []byte, found bool) ([]OperatorGoal, error) {
	if !found {
		return []OperatorGoal{}, nil
	}
	goals, ok := DecodeGoals(payload)
	if !ok {
		return []OperatorGoal{}, fmt.Errorf("slot %s: %w", slot, ErrUndecodablePayload)
	}
	if goals == nil {
		goals = []OperatorGoal{}
	}
	return goals, nil
}
