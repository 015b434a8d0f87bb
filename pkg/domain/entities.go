// Package domain defines the checklist entities, rule contracts, and storage
// ports shared by the reconciliation engine and its adapters.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category classifies goals. Its integer value is the primary sort key and the
// display grouping key, so the declaration order below is significant.
type Category int

// Goal categories in display order.
const (
	CategoryElite Category = iota
	CategoryMastery
	CategorySkill
)

var categoryNames = [...]string{
	CategoryElite:   "Elite",
	CategoryMastery: "Mastery",
	CategorySkill:   "Skill",
}

// Categories returns every known category in ascending order.
func Categories() []Category {
	return []Category{CategoryElite, CategoryMastery, CategorySkill}
}

// String returns the display name of the category.
func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// ParseCategory accepts a category display name (case-insensitive) or its integer value.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	for i, name := range categoryNames {
		if strings.EqualFold(trimmed, name) {
			return Category(i), nil
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err == nil && Category(n).Valid() {
		return Category(n), nil
	}
	return 0, fmt.Errorf("unknown goal category %q", raw)
}

// UnmarshalYAML lets recipe files spell categories either by name or by number.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: goal category must be a scalar", node.Line)
	}
	parsed, err := ParseCategory(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// Item is a required resource and the quantity needed.
type Item struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// GoalSpec is a candidate goal offered by the recipe catalog for one operator.
type GoalSpec struct {
	Category      Category `json:"category" yaml:"category"`
	Name          string   `json:"name" yaml:"name"`
	RequiredItems []Item   `json:"requiredItems" yaml:"requiredItems"`
}

// Clone returns a deep copy so callers never share item slices. A nil item
// list becomes empty so the wire shape always carries an array.
func (g GoalSpec) Clone() GoalSpec {
	out := g
	out.RequiredItems = make([]Item, len(g.RequiredItems))
	copy(out.RequiredItems, g.RequiredItems)
	return out
}

// OperatorGoal is a goal committed for a specific operator. It is the unit of
// persistence and of deduplication.
type OperatorGoal struct {
	OperatorName  string   `json:"operatorName"`
	Category      Category `json:"category"`
	Name          string   `json:"name"`
	RequiredItems []Item   `json:"requiredItems"`
}

// NewOperatorGoal attaches an operator name to a catalog goal.
func NewOperatorGoal(operatorName string, goal GoalSpec) OperatorGoal {
	g := goal.Clone()
	return OperatorGoal{
		OperatorName:  operatorName,
		Category:      g.Category,
		Name:          g.Name,
		RequiredItems: g.RequiredItems,
	}
}

// Key returns the identity of the goal within a checklist.
func (g OperatorGoal) Key() Key {
	return Key{OperatorName: g.OperatorName, Name: g.Name}
}

// Spec strips the operator name.
func (g OperatorGoal) Spec() GoalSpec {
	return GoalSpec{Category: g.Category, Name: g.Name, RequiredItems: g.RequiredItems}.Clone()
}

// Clone returns a deep copy of the goal.
func (g OperatorGoal) Clone() OperatorGoal {
	return NewOperatorGoal(g.OperatorName, g.Spec())
}

// Key identifies a goal in the persisted checklist. Two records with the same
// key are the same goal even when their required items differ.
type Key struct {
	OperatorName string
	Name         string
}

func (k Key) String() string {
	return k.OperatorName + "/" + k.Name
}

// CloneGoals deep-copies a goal collection.
func CloneGoals(goals []OperatorGoal) []OperatorGoal {
	out := make([]OperatorGoal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
