package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"matcheck/internal/core"
	"matcheck/pkg/domain"
)

func newOperatorsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List operators with recipe data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range a.catalog.OperatorNames() {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}

func newGoalsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "goals OPERATOR",
		Short: "Show the goals available for an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := core.NewSelection(a.catalog)
			if err := sel.SelectOperator(args[0]); err != nil {
				return err
			}
			a.view.candidates(sel.Operator(), sel.Candidates())
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add OPERATOR GOAL...",
		Short: "Add goals for an operator to the checklist",
		Example: `  matcheck add Amiya "Elite 1" "Skill 2"
  matcheck add Texas "Skill 2 Mastery 1"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := core.NewSelection(a.catalog)
			if err := sel.SelectOperator(args[0]); err != nil {
				return err
			}
			for _, goal := range args[1:] {
				if err := sel.Add(goal); err != nil {
					return fmt.Errorf("%w; available: %s", err, strings.Join(candidateNames(sel.Candidates()), ", "))
				}
			}
			operator := sel.Operator()
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := sel.Commit(cmd.Context(), svc)
			var rejected domain.RuleViolationError
			switch {
			case errors.As(err, &rejected):
				a.view.violations(rejected.Result.Violations)
				return fmt.Errorf("no goals added for %s", operator)
			case core.IsStorageError(err):
				a.view.notice("changes kept for this session only: %v", err)
			case err != nil:
				return err
			}
			a.view.violations(out.Result.Violations)
			a.view.committed(operator, len(out.Added), len(out.Updated))
			a.view.checklist(core.GroupByCategory(out.Goals))
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the checklist grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(svc.Goals())
			}
			a.view.checklist(svc.Grouped())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the checklist in its stored JSON shape")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete OPERATOR GOAL",
		Short: "Remove one goal from the checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			key := domain.Key{OperatorName: args[0], Name: args[1]}
			out, err := svc.Delete(cmd.Context(), key)
			if err != nil {
				if !core.IsStorageError(err) {
					return err
				}
				a.view.notice("changes kept for this session only: %v", err)
			}
			a.view.deleted(key, out.Removed)
			return nil
		},
	}
}

func candidateNames(goals []domain.GoalSpec) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.Name
	}
	return out
}
