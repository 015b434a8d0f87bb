package core

import (
	"context"
	"strings"

	"matcheck/pkg/domain"
)

// NewGoalIdentityRule returns the rule rejecting records without an operator or goal name.
func NewGoalIdentityRule() domain.Rule {
	return goalIdentityRule{}
}

type goalIdentityRule struct{}

func (goalIdentityRule) Name() string { return "goal_identity" }

func (r goalIdentityRule) Evaluate(_ context.Context, goal domain.OperatorGoal) (domain.Result, error) {
	res := domain.Result{}
	if strings.TrimSpace(goal.OperatorName) == "" {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  "operator name is required",
			Key:      goal.Key(),
		})
	}
	if strings.TrimSpace(goal.Name) == "" {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  "goal name is required",
			Key:      goal.Key(),
		})
	}
	return res, nil
}
