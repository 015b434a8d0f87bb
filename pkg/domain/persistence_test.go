package domain

import (
	"errors"
	"testing"

	"matcheck/testutil"
)

func TestEncodeGoalsNilIsEmptyArray(t *testing.T) {
	b, err := EncodeGoals(nil)
	if err != nil || string(b) != "[]" {
		t.Fatalf("got %s %v", b, err)
	}
	b, _ = EncodeGoals([]OperatorGoal{{OperatorName: "A", Name: "g"}})
	if string(b) != `[{"operatorName":"A","category":0,"name":"g","requiredItems":[]}]` {
		t.Fatalf("unexpected encoding %s", b)
	}
}

func TestEncodeGoalsItemsAlwaysArray(t *testing.T) {
	goal := NewOperatorGoal("Texas", GoalSpec{Category: CategorySkill, Name: "Skill 2"})
	if goal.RequiredItems == nil {
		t.Fatalf("NewOperatorGoal should normalize nil items")
	}
	b, err := EncodeGoals([]OperatorGoal{goal})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `[{"operatorName":"Texas","category":2,"name":"Skill 2","requiredItems":[]}]` {
		t.Fatalf("unexpected encoding %s", b)
	}
}

func TestDecodeGoals(t *testing.T) {
	for _, payload := range []string{"", "{", `{"operatorName":"A"}`, `"text"`} {
		if _, ok := DecodeGoals([]byte(payload)); ok {
			t.Fatalf("payload %q should not decode", payload)
		}
	}
	goals, ok := DecodeGoals([]byte(`[{"operatorName":"A","category":2,"name":"Skill 2","requiredItems":[]}]`))
	if !ok || len(goals) != 1 || goals[0].Category != CategorySkill {
		t.Fatalf("unexpected decode %+v %v", goals, ok)
	}
}

func TestGoalsFromPayload(t *testing.T) {
	goals, err := GoalsFromPayload("s", nil, false)
	if err != nil || goals == nil || len(goals) != 0 {
		t.Fatalf("missing slot: %#v %v", goals, err)
	}
	goals, err = GoalsFromPayload("s", []byte("null"), true)
	if err != nil || goals == nil {
		t.Fatalf("null payload: %#v %v", goals, err)
	}
	goals, err = GoalsFromPayload("s", []byte("not json"), true)
	if !errors.Is(err, ErrUndecodablePayload) || goals == nil {
		t.Fatalf("expected undecodable error, got %v", err)
	}
}

func TestDomainHasNoInternalImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.Any(testutil.InternalImportForbidden, testutil.DriverImportForbidden),
		"domain must stay independent of adapters")
}
