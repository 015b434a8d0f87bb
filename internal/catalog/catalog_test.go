package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"matcheck/pkg/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	names := cat.OperatorNames()
	if len(names) == 0 || !sort.StringsAreSorted(names) {
		t.Fatalf("expected sorted operator names, got %v", names)
	}
	goals, ok := cat.Goals("Amiya")
	if !ok || len(goals) == 0 {
		t.Fatalf("expected Amiya goals")
	}
	if goals[0].Name != "Elite 1" || goals[0].Category != domain.CategoryElite {
		t.Fatalf("unexpected first goal %+v", goals[0])
	}
	var sawMastery bool
	for _, g := range goals {
		if g.Category == domain.CategoryMastery {
			sawMastery = true
		}
		if g.RequiredItems == nil {
			t.Fatalf("goal %s has nil items", g.Name)
		}
	}
	if !sawMastery {
		t.Fatalf("expected category names to decode")
	}
	if _, ok := cat.Goals("amiya"); ok {
		t.Fatalf("lookups must be exact")
	}
}

func TestGoalsReturnsCopies(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	goals, _ := cat.Goals("Texas")
	goals[0].RequiredItems[0].Quantity = -1
	again, _ := cat.Goals("Texas")
	if again[0].RequiredItems[0].Quantity == -1 {
		t.Fatalf("catalog leaked internal slice")
	}
	names := cat.OperatorNames()
	names[0] = "zzz"
	if cat.OperatorNames()[0] == "zzz" {
		t.Fatalf("catalog leaked name slice")
	}
}

func TestParseNumericCategoriesAndEmptyItems(t *testing.T) {
	cat, err := Parse([]byte(`
operators:
  - name: Beagle
    goals:
      - {category: 2, name: Skill 2}
      - {category: 0, name: Elite 1, requiredItems: [{name: LMD, quantity: 10000}]}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	goals, _ := cat.Goals("Beagle")
	if goals[0].Category != domain.CategorySkill || goals[0].RequiredItems == nil || len(goals[0].RequiredItems) != 0 {
		t.Fatalf("unexpected goal %+v", goals[0])
	}
}

func TestParseRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"syntax":         "operators: [",
		"empty name":     "operators: [{name: '', goals: []}]",
		"duplicate op":   "operators: [{name: A}, {name: A}]",
		"duplicate goal": "operators: [{name: A, goals: [{category: 0, name: G}, {category: 1, name: G}]}]",
		"bad category":   "operators: [{name: A, goals: [{category: Prestige, name: G}]}]",
		"bad quantity":   "operators: [{name: A, goals: [{category: 0, name: G, requiredItems: [{name: LMD, quantity: 0}]}]}]",
		"blank goal":     "operators: [{name: A, goals: [{category: 0, name: ' '}]}]",
		"unknown key":    "operators: [{name: A, goals: [{category: 0, name: G, requireditems: [{name: LMD, quantity: 1}]}]}]",
		"unknown item":  "operators: [{name: A, goals: [{category: 0, name: G, requiredItems: [{name: LMD, quantity: 1, qty: 1}]}]}]",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	if err := os.WriteFile(path, []byte("operators: [{name: Lappland, goals: [{category: Elite, name: Elite 1}]}]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if names := cat.OperatorNames(); len(names) != 1 || names[0] != "Lappland" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if cat, err := Load(""); err != nil || len(cat.OperatorNames()) < 2 {
		t.Fatalf("empty path should load embedded data: %v", err)
	}
}

func TestSuggest(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if got := cat.Suggest("Amyia", 3); len(got) == 0 || got[0] != "Amiya" {
		t.Fatalf("expected Amiya suggestion, got %v", got)
	}
	if got := cat.Suggest("silverash", 1); len(got) != 1 || got[0] != "SilverAsh" {
		t.Fatalf("expected case-insensitive match, got %v", got)
	}
	if got := cat.Suggest("Eyja", 2); len(got) == 0 || got[0] != "Eyjafjalla" {
		t.Fatalf("expected prefix match, got %v", got)
	}
	if got := cat.Suggest("Qwertyuiop", 3); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
	if got := cat.Suggest("Amiya", 0); got != nil {
		t.Fatalf("zero limit should return nil")
	}
}
