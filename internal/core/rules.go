package core

import (
	"context"

	"matcheck/pkg/domain"
)

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in validation set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewGoalIdentityRule())
	engine.Register(NewItemQuantityRule())
	return engine
}

var defaultRules = NewDefaultRulesEngine()

// Validate runs the built-in rules against a single record.
func Validate(goal OperatorGoal) Result {
	_, res := screen(context.Background(), defaultRules, []OperatorGoal{goal})
	return res
}

// screen evaluates every record and splits off the ones with blocking
// violations. A rule that fails to evaluate blocks the record it was given.
func screen(ctx context.Context, engine *RulesEngine, goals []OperatorGoal) ([]OperatorGoal, Result) {
	var combined Result
	accepted := make([]OperatorGoal, 0, len(goals))
	for _, goal := range goals {
		if engine == nil {
			accepted = append(accepted, goal)
			continue
		}
		res, err := engine.Evaluate(ctx, goal)
		if err != nil {
			res = Result{Violations: []Violation{{
				Rule:     "rule_error",
				Severity: SeverityBlock,
				Message:  err.Error(),
				Key:      goal.Key(),
			}}}
		}
		combined.Merge(res)
		if res.HasBlocking() {
			continue
		}
		accepted = append(accepted, goal)
	}
	return accepted, combined
}
