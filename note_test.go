package rulla_test

import (
	"errors"
	"testing"

	"github.com/nuottila/rulla"
)

func TestInsertThenFindAt(t *testing.T) {
	var notes rulla.NoteList
	notes, err := notes.Insert(rulla.Note{Start: 80, Duration: 80, Pitch: 60, Velocity: 100})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if len(notes) != 1 || notes[0].ID == "" {
		t.Fatalf("expected one note with an id, got %v", notes)
	}
	y := rulla.RowTop(60) + rulla.RowHeight/2
	got, ok := notes.FindAt(100, y)
	if !ok || got.ID != notes[0].ID {
		t.Fatalf("FindAt(100, %v) = %v, %v; want the inserted note", y, got, ok)
	}
	if _, ok := notes.FindAt(160, y); ok {
		t.Fatalf("FindAt at the exclusive end edge should miss")
	}
	if _, ok := notes.FindAt(100, y+rulla.RowHeight); ok {
		t.Fatalf("FindAt one row below should miss")
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	var notes rulla.NoteList
	for _, n := range []rulla.Note{
		{Start: 0, Duration: 0, Pitch: 60},
		{Start: 0, Duration: -20, Pitch: 60},
		{Start: 0, Duration: 20, Pitch: -1},
		{Start: 0, Duration: 20, Pitch: 128},
	} {
		ret, err := notes.Insert(n)
		if !errors.Is(err, rulla.ErrInvalidNote) {
			t.Errorf("Insert(%+v) err = %v, want ErrInvalidNote", n, err)
		}
		if len(ret) != 0 {
			t.Errorf("Insert(%+v) mutated the list", n)
		}
	}
}

func TestInsertClampsVelocityAndStart(t *testing.T) {
	var notes rulla.NoteList
	notes, err := notes.Insert(rulla.Note{Start: -5, Duration: 20, Pitch: 60, Velocity: 200})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if notes[0].Start != 0 || notes[0].Velocity != 127 {
		t.Fatalf("expected clamped start 0 and velocity 127, got %+v", notes[0])
	}
}

func TestFindAtPrefersLastInserted(t *testing.T) {
	var notes rulla.NoteList
	notes, _ = notes.Insert(rulla.Note{ID: "below", Start: 0, Duration: 100, Pitch: 60, Velocity: 100})
	notes, _ = notes.Insert(rulla.Note{ID: "above", Start: 50, Duration: 100, Pitch: 60, Velocity: 100})
	got, ok := notes.FindAt(60, rulla.RowTop(60))
	if !ok || got.ID != "above" {
		t.Fatalf("FindAt on overlap = %v, want the later inserted note", got.ID)
	}
	got, ok = notes.FindAt(10, rulla.RowTop(60))
	if !ok || got.ID != "below" {
		t.Fatalf("FindAt outside the overlap = %v, want the earlier note", got.ID)
	}
}

func TestUpdate(t *testing.T) {
	var notes rulla.NoteList
	notes, _ = notes.Insert(rulla.Note{ID: "a", Start: 0, Duration: 20, Pitch: 60, Velocity: 100})
	ret := notes.Update("a", func(n rulla.Note) rulla.Note {
		n.ID = "mangled"
		n.Start = 40
		n.Pitch = 200
		return n
	})
	if ret[0].ID != "a" {
		t.Errorf("Update must keep the id, got %q", ret[0].ID)
	}
	if ret[0].Pitch != rulla.MaxPitch {
		t.Errorf("Update must clamp pitch, got %d", ret[0].Pitch)
	}
	if notes[0].Start != 0 {
		t.Errorf("Update must not mutate the original list")
	}
	ret = notes.Update("a", func(n rulla.Note) rulla.Note {
		n.Duration = -5
		return n
	})
	if ret[0].Duration != 20 {
		t.Errorf("non-positive duration from the patch must keep the old duration, got %v", ret[0].Duration)
	}
	if got := notes.Update("nosuch", func(n rulla.Note) rulla.Note { return n }); len(got) != 1 || got[0] != notes[0] {
		t.Errorf("updating an unknown id must be a no-op")
	}
}

func TestRemove(t *testing.T) {
	var notes rulla.NoteList
	notes, _ = notes.Insert(rulla.Note{ID: "a", Start: 0, Duration: 20, Pitch: 60})
	notes, _ = notes.Insert(rulla.Note{ID: "b", Start: 20, Duration: 20, Pitch: 61})
	notes, _ = notes.Insert(rulla.Note{ID: "c", Start: 40, Duration: 20, Pitch: 62})
	ret, ok := notes.Remove("b")
	if !ok || len(ret) != 2 || ret[0].ID != "a" || ret[1].ID != "c" {
		t.Fatalf("Remove(b) = %v, %v; want a and c in order", ret, ok)
	}
	if len(notes) != 3 {
		t.Fatalf("Remove mutated the original list")
	}
	if _, ok := ret.Remove("b"); ok {
		t.Fatalf("removing a missing id must report false")
	}
}

func TestBulkMapLeavesOriginalAlone(t *testing.T) {
	var notes rulla.NoteList
	notes, _ = notes.Insert(rulla.Note{ID: "a", Start: 0, Duration: 20, Pitch: 60})
	notes, _ = notes.Insert(rulla.Note{ID: "b", Start: 20, Duration: 20, Pitch: 61})
	ret := notes.BulkMap(
		func(n rulla.Note) bool { return n.ID == "b" },
		func(n rulla.Note) rulla.Note { n.Pitch += 12; return n },
	)
	if ret[1].Pitch != 73 || ret[0].Pitch != 60 {
		t.Fatalf("BulkMap applied wrong: %v", ret)
	}
	if notes[1].Pitch != 61 {
		t.Fatalf("BulkMap mutated the original list")
	}
}

func TestMaxEnd(t *testing.T) {
	var notes rulla.NoteList
	if notes.MaxEnd() != 0 {
		t.Fatalf("empty list MaxEnd = %v, want 0", notes.MaxEnd())
	}
	notes, _ = notes.Insert(rulla.Note{Start: 0, Duration: 300, Pitch: 60})
	notes, _ = notes.Insert(rulla.Note{Start: 200, Duration: 20, Pitch: 61})
	if got := notes.MaxEnd(); got != 300 {
		t.Fatalf("MaxEnd = %v, want 300", got)
	}
}
