package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"matcheck/internal/core"
	"matcheck/pkg/domain"
)

type view struct {
	out     io.Writer
	heading lipgloss.Style
	goal    lipgloss.Style
	item    lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
}

// newView binds styles to w so colour is only emitted on terminals.
func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		out:     w,
		heading: r.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("39")),
		goal:    r.NewStyle().Bold(true).PaddingLeft(2),
		item:    r.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(4),
		muted:   r.NewStyle().Faint(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (v *view) println(s string) {
	fmt.Fprintln(v.out, s)
}

func (v *view) checklist(groups []core.Group) {
	if len(groups) == 0 {
		v.println(v.muted.Render("Checklist is empty."))
		return
	}
	for i, g := range groups {
		if i > 0 {
			v.println("")
		}
		v.println(v.heading.Render(g.Category.String()))
		for _, goal := range g.Goals {
			v.println(v.goal.Render(goal.OperatorName + " · " + goal.Name))
			v.items(goal.RequiredItems)
		}
	}
}

func (v *view) candidates(operator string, goals []domain.GoalSpec) {
	listed := make([]domain.OperatorGoal, len(goals))
	for i, g := range goals {
		listed[i] = domain.NewOperatorGoal(operator, g)
	}
	for i, g := range core.GroupByCategory(listed) {
		if i > 0 {
			v.println("")
		}
		v.println(v.heading.Render(g.Category.String()))
		for _, goal := range g.Goals {
			v.println(v.goal.Render(goal.Name))
			v.items(goal.RequiredItems)
		}
	}
}

func (v *view) items(items []domain.Item) {
	if len(items) == 0 {
		v.println(v.item.Render("(no materials)"))
		return
	}
	for _, it := range items {
		v.println(v.item.Render(fmt.Sprintf("%s x%d", it.Name, it.Quantity)))
	}
}

func (v *view) committed(operator string, added, updated int) {
	v.println(fmt.Sprintf("%s: %d added, %d updated", operator, added, updated))
}

func (v *view) deleted(key domain.Key, removed bool) {
	if removed {
		v.println("Removed " + key.String())
		return
	}
	v.println(v.muted.Render(key.String() + " is not in the checklist"))
}

func (v *view) violations(violations []domain.Violation) {
	for _, vi := range violations {
		v.println(v.bad.Render("rejected " + vi.Key.String() + ": " + vi.Message))
	}
}

func (v *view) notice(format string, args ...any) {
	v.println(v.warn.Render("warning: " + fmt.Sprintf(format, args...)))
}

// writeMetrics prints the gathered families in the Prometheus text format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
