package jsonutil

import (
	"bytes"
	"strings"
	"testing"
)

type step struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

type deck struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Steps []step `json:"steps"`
}

func TestDiffNestedChanges(t *testing.T) {
	oldDeck := deck{ID: "tour", Name: "Tour", Steps: []step{{"a", "One"}, {"b", "Two"}}}
	newDeck := deck{ID: "tour", Steps: []step{{"a", "Uno"}, {"b", "Two"}, {"c", "Three"}}}

	changes, err := Diff(oldDeck, newDeck)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	want := []Change{
		{Path: "name", Type: "delete", OldValue: `"Tour"`},
		{Path: "steps[0].title", Type: "update", OldValue: `"One"`, NewValue: `"Uno"`},
		{Path: "steps[2]", Type: "add", NewValue: `{"key":"c","title":"Three"}`},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %d: %+v", len(want), len(changes), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: expected %+v, got %+v", i, want[i], changes[i])
		}
	}
}

func TestDiffFromNothing(t *testing.T) {
	changes, err := Diff(nil, deck{ID: "tour"})
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected id and steps to be added, got %+v", changes)
	}
	for _, c := range changes {
		if c.Type != "add" {
			t.Errorf("expected add, got %+v", c)
		}
	}
}

func TestDiffIdentical(t *testing.T) {
	d := deck{ID: "tour", Steps: []step{{"a", "One"}}}
	changes, err := Diff(d, d)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, map[string]int{"steps": 5}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if got := buf.String(); got != "{\n  \"steps\": 5\n}\n" {
		t.Errorf("unexpected output %q", got)
	}

	if err := Print(&buf, func() {}); err == nil {
		t.Error("expected an error for an unencodable value")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"abcdef", 2, "ab"},
		{strings.Repeat("é", 6), 5, "éé..."},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
