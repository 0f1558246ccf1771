package editor_test

import (
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

func TestSelectionWithWithout(t *testing.T) {
	var s editor.Selection
	s2 := s.With("a")
	if !s2.Contains("a") || s.Contains("a") {
		t.Fatalf("With must return a new set and leave the receiver alone")
	}
	s3 := s2.With("a")
	if len(s3) != 1 {
		t.Fatalf("adding a present id must not grow the set")
	}
	s4 := s3.Without("a")
	if s4.Contains("a") || !s3.Contains("a") {
		t.Fatalf("Without must return a new set and leave the receiver alone")
	}
	if got := s4.Without("a"); len(got) != 0 {
		t.Fatalf("removing a missing id must stay empty, got %v", got)
	}
}

func TestSelectionOrdered(t *testing.T) {
	notes := rulla.NoteList{
		{ID: "x", Start: 0, Duration: 20, Pitch: 60},
		{ID: "y", Start: 20, Duration: 20, Pitch: 61},
		{ID: "z", Start: 40, Duration: 20, Pitch: 62},
	}
	s := editor.Selection{"z": {}, "x": {}}
	got := s.Ordered(notes)
	if len(got) != 2 || got[0] != "x" || got[1] != "z" {
		t.Fatalf("Ordered = %v, want [x z] in list order", got)
	}
	if editor.Selection(nil).Ordered(notes) != nil {
		t.Fatalf("empty selection must order to nil")
	}
}

func TestSelectionPruned(t *testing.T) {
	notes := rulla.NoteList{{ID: "x", Start: 0, Duration: 20, Pitch: 60}}
	s := editor.Selection{"x": {}, "gone": {}}
	got := s.Pruned(notes)
	if !got.Contains("x") || got.Contains("gone") || len(got) != 1 {
		t.Fatalf("Pruned = %v, want only x", got)
	}
	if !s.Contains("gone") {
		t.Fatalf("Pruned must not mutate the receiver")
	}
	same := editor.Selection{"x": {}}
	if got := same.Pruned(notes); len(got) != 1 || !got.Contains("x") {
		t.Fatalf("pruning a clean selection = %v", got)
	}
}
