package core

import (
	"context"
	"strings"
)

// Suggester is implemented by catalogs that can propose operator names close
// to a misspelled one.
type Suggester interface {
	Suggest(name string, limit int) []string
}

// Committer receives a selection on commit. *Service implements it.
type Committer interface {
	Commit(ctx context.Context, operatorName string, goals []GoalSpec) (CommitOutcome, error)
}

// Selection buffers the goals chosen for the currently selected operator until
// they are committed. It belongs to a single interaction context and is not
// safe for concurrent use.
type Selection struct {
	catalog    RecipeCatalog
	operator   string
	candidates []GoalSpec
	chosen     []GoalSpec
}

// NewSelection returns an empty selection backed by catalog.
func NewSelection(catalog RecipeCatalog) *Selection {
	return &Selection{catalog: catalog}
}

// SelectOperator switches the selection to name and clears buffered goals.
// Unknown operators leave the selection cleared and return ErrUnknownOperator.
func (s *Selection) SelectOperator(name string) error {
	s.Reset()
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	goals, ok := s.catalog.Goals(name)
	if !ok {
		err := ErrUnknownOperator{Name: name}
		if sg, ok := s.catalog.(Suggester); ok {
			err.Suggestions = sg.Suggest(name, 3)
		}
		return err
	}
	s.operator = name
	s.candidates = SortCandidates(goals)
	return nil
}

// Operator returns the selected operator, or "" when none is selected.
func (s *Selection) Operator() string {
	return s.operator
}

// Candidates returns the goals offered for the selected operator, ordered by category.
func (s *Selection) Candidates() []GoalSpec {
	return cloneSpecs(s.candidates)
}

// Add buffers the candidate named goalName. Adding a name that is already
// buffered replaces the buffered entry.
func (s *Selection) Add(goalName string) error {
	if s.operator == "" {
		return ErrNoOperatorSelected
	}
	for _, candidate := range s.candidates {
		if candidate.Name != goalName {
			continue
		}
		s.Remove(goalName)
		s.chosen = SortSelection(append(s.chosen, candidate))
		return nil
	}
	return ErrUnknownGoal{OperatorName: s.operator, Name: goalName}
}

// Remove drops goalName from the buffer and reports whether it was buffered.
func (s *Selection) Remove(goalName string) bool {
	for i, goal := range s.chosen {
		if goal.Name == goalName {
			s.chosen = append(s.chosen[:i:i], s.chosen[i+1:]...)
			return true
		}
	}
	return false
}

// Goals returns the buffered goals ordered by category, then name.
func (s *Selection) Goals() []GoalSpec {
	return cloneSpecs(s.chosen)
}

// Reset clears the operator and the buffer.
func (s *Selection) Reset() {
	s.operator = ""
	s.candidates = nil
	s.chosen = nil
}

// Commit hands the buffer to c and clears the selection once the checklist
// has changed, including when only persistence failed. An empty buffer is a
// no-op.
func (s *Selection) Commit(ctx context.Context, c Committer) (CommitOutcome, error) {
	if len(s.chosen) == 0 {
		return CommitOutcome{}, nil
	}
	out, err := c.Commit(ctx, s.operator, s.Goals())
	if err == nil || IsStorageError(err) {
		s.Reset()
	}
	return out, err
}
