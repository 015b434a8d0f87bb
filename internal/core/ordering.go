package core

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortCandidates orders the goals offered for an operator by category only.
// Goals sharing a category keep the order the catalog returned them in.
func SortCandidates(goals []GoalSpec) []GoalSpec {
	out := cloneSpecs(goals)
	slices.SortStableFunc(out, func(a, b GoalSpec) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// SortSelection orders buffered goals by category, then by name.
func SortSelection(goals []GoalSpec) []GoalSpec {
	out := cloneSpecs(goals)
	compare := selectionComparator()
	slices.SortStableFunc(out, compare)
	return out
}

// CompareSelection is the two-key comparator used for the selection buffer.
func CompareSelection(a, b GoalSpec) int {
	return selectionComparator()(a, b)
}

// selectionComparator returns a comparator bound to a fresh collator; collators
// keep internal buffers and must not be shared across goroutines.
func selectionComparator() func(a, b GoalSpec) int {
	col := collate.New(language.English)
	return func(a, b GoalSpec) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	}
}

// Group is one category section of the rendered checklist.
type Group struct {
	Category Category
	Goals    []OperatorGoal
}

// GroupByCategory splits the collection into category sections in category
// order. Members keep their collection order and empty sections are omitted.
func GroupByCategory(goals []OperatorGoal) []Group {
	buckets := make(map[Category][]OperatorGoal)
	var order []Category
	for _, goal := range goals {
		if _, ok := buckets[goal.Category]; !ok {
			order = append(order, goal.Category)
		}
		buckets[goal.Category] = append(buckets[goal.Category], goal.Clone())
	}
	slices.Sort(order)
	out := make([]Group, 0, len(order))
	for _, category := range order {
		out = append(out, Group{Category: category, Goals: buckets[category]})
	}
	return out
}

func cloneSpecs(goals []GoalSpec) []GoalSpec {
	out := make([]GoalSpec, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
