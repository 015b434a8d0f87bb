package domain

import (
	"context"
	"errors"
	"testing"
)

type staticRule struct {
	name string
	res  Result
	err  error
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, OperatorGoal) (Result, error) { return r.res, r.err }

func TestResultBlocked(t *testing.T) {
	a, b := Key{"A", "x"}, Key{"A", "y"}
	res := Result{Violations: []Violation{
		{Rule: "r1", Severity: SeverityBlock, Key: a},
		{Rule: "r2", Severity: SeverityWarn, Key: b},
		{Rule: "r3", Severity: SeverityBlock, Key: a},
	}}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking")
	}
	if blocked := res.Blocked(); len(blocked) != 1 || blocked[0] != a {
		t.Fatalf("unexpected blocked keys %v", blocked)
	}
	if (Result{Violations: res.Violations[1:2]}).HasBlocking() {
		t.Fatalf("warnings must not block")
	}
	if res.Violations[0].String() != "r1 [block] A/x: " {
		t.Fatalf("unexpected violation string %q", res.Violations[0].String())
	}
}

func TestRulesEngineEvaluate(t *testing.T) {
	engine := NewRulesEngine()
	warn := Result{Violations: []Violation{{Rule: "w", Severity: SeverityWarn}}}
	engine.Register(staticRule{name: "w", res: warn})
	engine.Register(staticRule{name: "w2", res: warn})
	res, err := engine.Evaluate(context.Background(), OperatorGoal{})
	if err != nil || len(res.Violations) != 2 {
		t.Fatalf("unexpected result %+v %v", res, err)
	}
	if rules := engine.Rules(); len(rules) != 2 || rules[1].Name() != "w2" {
		t.Fatalf("unexpected rules %v", rules)
	}

	boom := errors.New("boom")
	engine.Register(staticRule{name: "bad", err: boom})
	if _, err := engine.Evaluate(context.Background(), OperatorGoal{}); !errors.Is(err, boom) {
		t.Fatalf("expected rule error, got %v", err)
	}
}

func TestRuleViolationErrorMessage(t *testing.T) {
	err := RuleViolationError{Result: Result{Violations: make([]Violation, 2)}}
	if err.Error() != "commit rejected by rules: 2 violation(s)" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
