// Package catalog provides the recipe data listing the upgrade goals
// available for each operator.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"matcheck/pkg/domain"
)

//go:embed recipes.yaml
var embeddedRecipes []byte

// Compile-time contract assertion ensuring Catalog satisfies the domain port.
var _ domain.RecipeCatalog = (*Catalog)(nil)

type recipeFile struct {
	Operators []operatorEntry `yaml:"operators"`
}

type operatorEntry struct {
	Name  string            `yaml:"name"`
	Goals []domain.GoalSpec `yaml:"goals"`
}

// Catalog is an immutable operator -> goals table.
type Catalog struct {
	names []string
	goals map[string][]domain.GoalSpec
}

// Default returns the catalog built from the embedded recipe data.
func Default() (*Catalog, error) {
	return Parse(embeddedRecipes)
}

// Load reads a recipe file from path. An empty path selects the embedded data.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes YAML recipe data and checks it for duplicate operators,
// duplicate goal names within an operator, and malformed items.
func Parse(data []byte) (*Catalog, error) {
	var file recipeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	c := &Catalog{goals: make(map[string][]domain.GoalSpec, len(file.Operators))}
	for _, op := range file.Operators {
		name := strings.TrimSpace(op.Name)
		if name == "" {
			return nil, fmt.Errorf("operator with empty name")
		}
		if _, dup := c.goals[name]; dup {
			return nil, fmt.Errorf("operator %s listed twice", name)
		}
		seen := make(map[string]struct{}, len(op.Goals))
		goals := make([]domain.GoalSpec, 0, len(op.Goals))
		for _, goal := range op.Goals {
			if strings.TrimSpace(goal.Name) == "" {
				return nil, fmt.Errorf("operator %s: goal with empty name", name)
			}
			if _, dup := seen[goal.Name]; dup {
				return nil, fmt.Errorf("operator %s: goal %q listed twice", name, goal.Name)
			}
			seen[goal.Name] = struct{}{}
			for _, item := range goal.RequiredItems {
				if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 {
					return nil, fmt.Errorf("operator %s: goal %q: invalid item %q x%d", name, goal.Name, item.Name, item.Quantity)
				}
			}
			if goal.RequiredItems == nil {
				goal.RequiredItems = []domain.Item{}
			}
			goals = append(goals, goal.Clone())
		}
		c.goals[name] = goals
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c, nil
}

// OperatorNames returns every operator in ascending order.
func (c *Catalog) OperatorNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Goals returns the goals offered for operatorName in file order.
func (c *Catalog) Goals(operatorName string) ([]domain.GoalSpec, bool) {
	goals, ok := c.goals[operatorName]
	if !ok {
		return nil, false
	}
	out := make([]domain.GoalSpec, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out, true
}

// Suggest returns up to limit operator names closest to name by
// case-insensitive edit distance. Names further away than half their length
// are not suggested.
func (c *Catalog) Suggest(name string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	type scored struct {
		name string
		dist int
	}
	var matches []scored
	for _, candidate := range c.names {
		lower := strings.ToLower(candidate)
		dist := levenshtein.ComputeDistance(needle, lower)
		if needle != "" && strings.HasPrefix(lower, needle) {
			dist = 0
		}
		if dist > maxDistance(candidate) {
			continue
		}
		matches = append(matches, scored{name: candidate, dist: dist})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

func maxDistance(candidate string) int {
	if n := len([]rune(candidate)) / 2; n > 1 {
		return n
	}
	return 1
}
