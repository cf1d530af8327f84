package tdborm

import (
	"strings"
	"testing"
)

func TestBuildFragmentNoArgs(t *testing.T) {
	fragment := buildFragment("Project", "", "", 0, 0, nil, nil)
	if fragment != "  Project {\n    _id\n  }" {
		t.Fatalf("unexpected fragment: %q", fragment)
	}
}

func TestBuildFragmentWithFilter(t *testing.T) {
	fragment := buildFragment("Project", `{status: {eq: "active"}}`, "", 0, 0, nil, nil)
	if !strings.Contains(fragment, `filter: {status: {eq: "active"}}`) {
		t.Fatalf("fragment missing filter: %q", fragment)
	}
	if !strings.Contains(fragment, "Project(") {
		t.Fatalf("fragment missing args group: %q", fragment)
	}
}

func TestBuildFragmentWithAllArgs(t *testing.T) {
	fragment := buildFragment("Ticket", `{status: {eq: "open"}}`, "{created_at: Desc}", 100, 50, nil, nil)
	for _, want := range []string{
		`filter: {status: {eq: "open"}}`,
		"orderBy: {created_at: Desc}",
		"limit: 100",
		"offset: 50",
	} {
		if !strings.Contains(fragment, want) {
			t.Fatalf("fragment missing %q: %q", want, fragment)
		}
	}
}

func TestBuildFragmentWithNestedRelations(t *testing.T) {
	fragment := buildFragment("Project", `{status: {eq: "active"}}`, "{name: Asc}", 10, 0, nil, []RelationSpec{
		{TargetType: "Ticket", Direction: DirectionReverse, Field: "project"},
	})

	if !strings.Contains(fragment, `Project(filter: {status: {eq: "active"}}`) {
		t.Fatalf("fragment missing root args: %q", fragment)
	}
	if !strings.Contains(fragment, "orderBy: {name: Asc}") {
		t.Fatalf("fragment missing orderBy: %q", fragment)
	}
	if !strings.Contains(fragment, "limit: 10") {
		t.Fatalf("fragment missing limit: %q", fragment)
	}
	if !strings.Contains(fragment, "_project_of_Ticket") {
		t.Fatalf("fragment missing synthetic relation field: %q", fragment)
	}
}

func TestBuildQueryEmpty(t *testing.T) {
	if got := buildQuery(nil); got != "query { __typename }" {
		t.Fatalf("unexpected empty query: %q", got)
	}
}

func TestBuildQueryMultipleFragments(t *testing.T) {
	a := buildFragment("Project", `{status: {eq: "active"}}`, "", 10, 0, nil, nil)
	b := buildFragment("Label", "", "", 0, 0, nil, nil)
	gql := buildQuery([]string{a, b})

	if !strings.HasPrefix(gql, "query {") {
		t.Fatalf("query missing prefix: %q", gql)
	}
	if !strings.Contains(gql, `Project(filter: {status: {eq: "active"}}, limit: 10)`) {
		t.Fatalf("query missing Project fragment: %q", gql)
	}
	if !strings.Contains(gql, "Label {") {
		t.Fatalf("query missing Label fragment: %q", gql)
	}
}

func TestExtractIDsSimple(t *testing.T) {
	data := map[string]any{
		"Project": []any{
			map[string]any{"_id": "Project/1"},
			map[string]any{"_id": "Project/2"},
			map[string]any{"_id": "Project/3"},
		},
	}

	var ids []string
	extractIDs(data, "Project", nil, &ids)
	want := []string{"Project/1", "Project/2", "Project/3"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestExtractIDsMissingType(t *testing.T) {
	data := map[string]any{
		"Project": []any{map[string]any{"_id": "Project/1"}},
	}

	var ids []string
	extractIDs(data, "NonExistent", nil, &ids)
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestSyntheticFieldName(t *testing.T) {
	reverse := RelationSpec{TargetType: "Ticket", Direction: DirectionReverse, Field: "project"}
	if got := syntheticFieldName(reverse); got != "_project_of_Ticket" {
		t.Fatalf("unexpected reverse field name: %q", got)
	}

	forward := RelationSpec{TargetType: "Label", Direction: DirectionForward, Field: "labels"}
	if got := syntheticFieldName(forward); got != "labels" {
		t.Fatalf("unexpected forward field name: %q", got)
	}
}
