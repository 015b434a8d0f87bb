package core

import (
	"context"
	"fmt"
	"strings"

	"matcheck/pkg/domain"
)

// NewItemQuantityRule returns the rule enforcing named items with positive quantities.
func NewItemQuantityRule() domain.Rule {
	return itemQuantityRule{}
}

type itemQuantityRule struct{}

func (itemQuantityRule) Name() string { return "item_quantity" }

func (r itemQuantityRule) Evaluate(_ context.Context, goal domain.OperatorGoal) (domain.Result, error) {
	res := domain.Result{}
	for i, item := range goal.RequiredItems {
		if strings.TrimSpace(item.Name) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("required item %d has no name", i),
				Key:      goal.Key(),
			})
		}
		if item.Quantity <= 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("required item %q has non-positive quantity %d", item.Name, item.Quantity),
				Key:      goal.Key(),
			})
		}
	}
	return res, nil
}
