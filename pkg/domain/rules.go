package domain

import (
	"context"
	"fmt"
)

// Severity indicates how a violation affects the record it was raised for.
type Severity string

const (
	// SeverityBlock rejects the record.
	SeverityBlock Severity = "block"
	// SeverityWarn keeps the record but reports the issue.
	SeverityWarn Severity = "warn"
)

// Violation reports a failed rule evaluation for a single goal record.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Key      Key
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", v.Rule, v.Severity, v.Key, v.Message)
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Blocked returns the distinct keys that carry at least one blocking violation.
func (r Result) Blocked() []Key {
	seen := make(map[Key]struct{})
	var out []Key
	for _, v := range r.Violations {
		if v.Severity != SeverityBlock {
			continue
		}
		if _, ok := seen[v.Key]; ok {
			continue
		}
		seen[v.Key] = struct{}{}
		out = append(out, v.Key)
	}
	return out
}

// RuleViolationError is returned when every record of a commit was rejected.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return fmt.Sprintf("commit rejected by rules: %d violation(s)", len(e.Result.Violations))
}

// Rule evaluates a single goal record before it is merged.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, goal OperatorGoal) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, goal OperatorGoal) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, goal)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
