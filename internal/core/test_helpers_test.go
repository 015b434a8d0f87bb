package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"matcheck/pkg/domain"
)

func lmd(q int) []Item { return []Item{{Name: "LMD", Quantity: q}} }

func spec(category Category, name string, items ...Item) GoalSpec {
	if items == nil {
		items = []Item{}
	}
	return GoalSpec{Category: category, Name: name, RequiredItems: items}
}

func keysOf(goals []OperatorGoal) []Key {
	out := make([]Key, len(goals))
	for i, g := range goals {
		out[i] = g.Key()
	}
	return out
}

// fakeStore is an in-memory ChecklistStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	slots   map[string][]OperatorGoal
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: make(map[string][]OperatorGoal)}
}

func (f *fakeStore) Driver() StorageDriver { return StorageMemory }

func (f *fakeStore) Load(_ context.Context, slot string) ([]OperatorGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		if errors.Is(f.loadErr, domain.ErrUndecodablePayload) {
			return []OperatorGoal{}, f.loadErr
		}
		return nil, f.loadErr
	}
	return domain.CloneGoals(f.slots[slot]), nil
}

func (f *fakeStore) Save(_ context.Context, slot string, goals []OperatorGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.slots[slot] = domain.CloneGoals(goals)
	return nil
}

func (f *fakeStore) saved(slot string) []OperatorGoal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneGoals(f.slots[slot])
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	mu    sync.Mutex
	calls []metricsCall
	count int
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.mu.Lock()
	c.calls = append(c.calls, metricsCall{op: op, success: success})
	c.mu.Unlock()
}

func (c *captureMetricsRecorder) SetGoalCount(n int) {
	c.mu.Lock()
	c.count = n
	c.mu.Unlock()
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	mu    sync.Mutex
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.mu.Lock()
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
	s.tracer.mu.Unlock()
}
