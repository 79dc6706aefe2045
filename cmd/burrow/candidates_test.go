package main

import "testing"

func TestIdentifierCandidates(t *testing.T) {
	lines := []string{
		"func Add(a, b int) int {",
		"	return a + b",
		"}",
	}

	got := identifierCandidates(lines)
	want := []Candidate{
		{Row: 0, Col: 0, Text: "func"},
		{Row: 0, Col: 5, Text: "Add"},
		{Row: 0, Col: 9, Text: "a"},
		{Row: 0, Col: 12, Text: "b"},
		{Row: 0, Col: 14, Text: "int"},
		{Row: 0, Col: 19, Text: "int"},
		{Row: 1, Col: 1, Text: "return"},
		{Row: 1, Col: 8, Text: "a"},
		{Row: 1, Col: 12, Text: "b"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("candidate %d: got %+v, want %+v", i, got[i], w)
		}
	}
}

func TestIdentifierCandidatesSkipsNumbers(t *testing.T) {
	got := identifierCandidates([]string{"x1 := 42 + _y"})
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %v", len(got), got)
	}
	if got[0].Text != "x1" || got[1].Text != "_y" {
		t.Errorf("unexpected candidate texts: %v", got)
	}
}

func TestIdentifierCandidatesEmptyWindow(t *testing.T) {
	if got := identifierCandidates(nil); got != nil {
		t.Errorf("expected no candidates, got %v", got)
	}
}
