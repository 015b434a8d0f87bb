package core

import (
	"context"

	"matcheck/pkg/domain"
)

// Commit merges newGoals, chosen for operatorName, into the persisted collection
// and returns the new collection. Keys already present keep their position and
// take the newer value; new keys are appended in submission order. The inputs
// are not modified.
//
// Records failing the default rules are dropped and reported in the Result; the
// remaining records still merge.
func Commit(persisted []OperatorGoal, operatorName string, newGoals []GoalSpec) ([]OperatorGoal, Result) {
	candidates := make([]OperatorGoal, 0, len(newGoals))
	for _, goal := range newGoals {
		candidates = append(candidates, domain.NewOperatorGoal(operatorName, goal))
	}
	accepted, res := screen(context.Background(), defaultRules, candidates)
	return merge(persisted, accepted), res
}

// Remove returns persisted without the records whose key equals target.
// Removing an absent key is a no-op.
func Remove(persisted []OperatorGoal, target Key) []OperatorGoal {
	out := make([]OperatorGoal, 0, len(persisted))
	for _, goal := range persisted {
		if goal.Key() == target {
			continue
		}
		out = append(out, goal.Clone())
	}
	return out
}

// Contains reports whether a record with key is present.
func Contains(goals []OperatorGoal, key Key) bool {
	for _, goal := range goals {
		if goal.Key() == key {
			return true
		}
	}
	return false
}

// merge overlays incoming onto persisted keeping the first-seen slot of each key.
func merge(persisted, incoming []OperatorGoal) []OperatorGoal {
	index := make(map[Key]int, len(persisted)+len(incoming))
	out := make([]OperatorGoal, 0, len(persisted)+len(incoming))
	put := func(goal OperatorGoal) {
		key := goal.Key()
		if slot, ok := index[key]; ok {
			out[slot] = goal.Clone()
			return
		}
		index[key] = len(out)
		out = append(out, goal.Clone())
	}
	for _, goal := range persisted {
		put(goal)
	}
	for _, goal := range incoming {
		put(goal)
	}
	return out
}
