package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"matcheck/pkg/domain"
)

// Service owns the persisted checklist for a session. Every change reads the
// current collection, merges, saves and swaps the snapshot under one lock, so
// concurrent callers never merge into a stale snapshot.
type Service struct {
	mu       sync.Mutex
	store    ChecklistStore
	slot     string
	engine   *RulesEngine
	goals    []OperatorGoal
	revision uint64

	metrics MetricsRecorder
	tracer  Tracer
	logger  zerolog.Logger

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Service.
type Option func(*Service)

// WithSlot overrides the storage slot key.
func WithSlot(slot string) Option {
	return func(s *Service) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithRulesEngine replaces the default validation rules.
func WithRulesEngine(engine *RulesEngine) Option {
	return func(s *Service) { s.engine = engine }
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Snapshot is a fully applied view of the checklist.
type Snapshot struct {
	Revision uint64
	Goals    []OperatorGoal
}

// CommitOutcome describes the effect of a commit.
type CommitOutcome struct {
	Goals   []OperatorGoal
	Added   []Key
	Updated []Key
	Result  Result
}

// DeleteOutcome describes the effect of a delete.
type DeleteOutcome struct {
	Goals   []OperatorGoal
	Removed bool
}

// NewService restores the checklist from store. A load failure is returned as a
// *StorageError alongside a usable service holding an empty checklist.
func NewService(ctx context.Context, store ChecklistStore, opts ...Option) (*Service, error) {
	s := &Service{
		store:   store,
		slot:    domain.DefaultSlot,
		engine:  NewDefaultRulesEngine(),
		goals:   []OperatorGoal{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		logger:  zerolog.Nop(),
		subs:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	err := s.observe(ctx, "load", func(ctx context.Context) error {
		loaded, err := store.Load(ctx, s.slot)
		switch {
		case errors.Is(err, domain.ErrUndecodablePayload):
			s.logger.Warn().Err(err).Str("slot", s.slot).Msg("discarding unreadable checklist")
			return nil
		case err != nil:
			return &StorageError{Op: "load", Driver: store.Driver(), Err: err}
		}
		accepted, res := screen(ctx, s.engine, loaded)
		for _, key := range res.Blocked() {
			s.logger.Warn().Str("slot", s.slot).Str("goal", key.String()).Msg("discarding invalid stored goal")
		}
		s.goals = merge(nil, accepted)
		return nil
	})
	s.recordCount(len(s.goals))
	if err != nil {
		s.logger.Error().Err(err).Str("slot", s.slot).Msg("checklist load failed")
		return s, err
	}
	s.logger.Debug().Int("goals", len(s.goals)).Str("driver", string(store.Driver())).Msg("checklist restored")
	return s, nil
}

// Store returns the underlying durable store.
func (s *Service) Store() ChecklistStore {
	return s.store
}

// Slot returns the storage slot key.
func (s *Service) Slot() string {
	return s.slot
}

// Goals returns a copy of the current checklist.
func (s *Service) Goals() []OperatorGoal {
	return s.Snapshot().Goals
}

// Snapshot returns the current checklist and its revision.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Revision: s.revision, Goals: domain.CloneGoals(s.goals)}
}

// Grouped returns the checklist split into category sections.
func (s *Service) Grouped() []Group {
	return GroupByCategory(s.Goals())
}

// Commit merges goals chosen for operatorName into the checklist. Records
// rejected by the rules are reported in the outcome and skipped. When every
// record is rejected nothing changes and a RuleViolationError is returned. A
// *StorageError means the checklist changed in memory but was not persisted.
func (s *Service) Commit(ctx context.Context, operatorName string, goals []GoalSpec) (CommitOutcome, error) {
	if len(goals) == 0 {
		return CommitOutcome{Goals: s.Goals()}, nil
	}
	var (
		out  CommitOutcome
		snap Snapshot
	)
	err := s.observe(ctx, "commit", func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		candidates := make([]OperatorGoal, 0, len(goals))
		for _, goal := range goals {
			candidates = append(candidates, domain.NewOperatorGoal(operatorName, goal))
		}
		accepted, res := screen(ctx, s.engine, candidates)
		out.Result = res
		for _, v := range res.Violations {
			s.logger.Warn().Str("rule", v.Rule).Str("goal", v.Key.String()).Msg(v.Message)
		}
		if len(accepted) == 0 {
			out.Goals = domain.CloneGoals(s.goals)
			return RuleViolationError{Result: res}
		}
		for _, goal := range accepted {
			if Contains(s.goals, goal.Key()) {
				out.Updated = appendKey(out.Updated, goal.Key())
			} else {
				out.Added = appendKey(out.Added, goal.Key())
			}
		}
		next := merge(s.goals, accepted)
		saveErr := s.store.Save(ctx, s.slot, next)
		s.goals = next
		s.revision++
		out.Goals = domain.CloneGoals(next)
		snap = Snapshot{Revision: s.revision, Goals: domain.CloneGoals(next)}
		if saveErr != nil {
			return &StorageError{Op: "save", Driver: s.store.Driver(), Err: saveErr}
		}
		return nil
	})
	if snap.Goals != nil {
		s.recordCount(len(snap.Goals))
		s.notify(snap)
		s.logger.Info().Str("operator", operatorName).Int("added", len(out.Added)).Int("updated", len(out.Updated)).Msg("goals committed")
	}
	if IsStorageError(err) {
		s.logger.Error().Err(err).Msg("checklist not persisted")
	}
	return out, err
}

// Delete removes the goal identified by key. Deleting an absent key is a
// silent no-op. A *StorageError means the goal was removed in memory only.
func (s *Service) Delete(ctx context.Context, key Key) (DeleteOutcome, error) {
	var (
		out  DeleteOutcome
		snap Snapshot
	)
	err := s.observe(ctx, "delete", func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !Contains(s.goals, key) {
			out.Goals = domain.CloneGoals(s.goals)
			return nil
		}
		next := Remove(s.goals, key)
		saveErr := s.store.Save(ctx, s.slot, next)
		s.goals = next
		s.revision++
		out.Removed = true
		out.Goals = domain.CloneGoals(next)
		snap = Snapshot{Revision: s.revision, Goals: domain.CloneGoals(next)}
		if saveErr != nil {
			return &StorageError{Op: "save", Driver: s.store.Driver(), Err: saveErr}
		}
		return nil
	})
	if out.Removed {
		s.recordCount(len(snap.Goals))
		s.notify(snap)
		s.logger.Info().Str("goal", key.String()).Msg("goal deleted")
	} else if err == nil {
		s.logger.Debug().Str("goal", key.String()).Msg("delete of absent goal ignored")
	}
	if IsStorageError(err) {
		s.logger.Error().Err(err).Msg("checklist not persisted")
	}
	return out, err
}

// Subscribe registers fn to receive every applied snapshot. Callbacks run on
// the goroutine that made the change, after the service lock is released.
// The returned function removes the subscription.
func (s *Service) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Service) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(Snapshot{Revision: snap.Revision, Goals: domain.CloneGoals(snap.Goals)})
	}
}

func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(started))
	return err
}

func (s *Service) recordCount(n int) {
	if rec, ok := s.metrics.(GoalCountRecorder); ok {
		rec.SetGoalCount(n)
	}
}

func containsKey(keys []Key, key Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func appendKey(keys []Key, key Key) []Key {
	if containsKey(keys, key) {
		return keys
	}
	return append(keys, key)
}
