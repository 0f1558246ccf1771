package rulla_test

import (
	"testing"

	"github.com/nuottila/rulla"
)

func TestNormalized(t *testing.T) {
	song := rulla.Song{
		BPM:           1000,
		TimeSignature: rulla.TimeSignature{Numerator: 1, Denominator: 3},
		Notes: rulla.NoteList{
			{Start: 0, Duration: 20, Pitch: 60, Velocity: 100},
			{Start: 10, Duration: 0, Pitch: 60, Velocity: 100},
			{Start: -5, Duration: 20, Pitch: 200, Velocity: 300},
			{ID: "dup", Start: 20, Duration: 20, Pitch: 61, Velocity: 100},
			{ID: "dup", Start: 40, Duration: 20, Pitch: 62, Velocity: 100},
		},
	}
	got := song.Normalized()
	if got.BPM != rulla.MaxBPM {
		t.Errorf("BPM = %d, want clamped to %d", got.BPM, rulla.MaxBPM)
	}
	if !got.TimeSignature.Valid() {
		t.Errorf("time signature %v not normalized", got.TimeSignature)
	}
	if len(got.Notes) != 4 {
		t.Fatalf("want the zero duration note dropped, got %d notes", len(got.Notes))
	}
	for i, n := range got.Notes {
		if n.ID == "" {
			t.Errorf("note %d has no id after Normalized", i)
		}
	}
	if got.Notes[2].ID != "dup" || got.Notes[3].ID == "dup" {
		t.Errorf("duplicate id must be replaced on the later note: %v", got.Notes)
	}
	if got.Notes[1].Start != 0 || got.Notes[1].Pitch != rulla.MaxPitch || got.Notes[1].Velocity != 127 {
		t.Errorf("out of range fields not clamped: %+v", got.Notes[1])
	}
	if song.BPM != 1000 {
		t.Errorf("Normalized mutated the receiver")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("normalized song must validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	ok := rulla.Song{BPM: 120, TimeSignature: rulla.TimeSignature{Numerator: 4, Denominator: 4}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid song rejected: %v", err)
	}
	for _, bad := range []rulla.Song{
		{BPM: 10, TimeSignature: rulla.TimeSignature{4, 4}},
		{BPM: 120, TimeSignature: rulla.TimeSignature{1, 4}},
		{BPM: 120, TimeSignature: rulla.TimeSignature{4, 4}, Notes: rulla.NoteList{{ID: "x", Duration: -1, Pitch: 60}}},
		{BPM: 120, TimeSignature: rulla.TimeSignature{4, 4}, Notes: rulla.NoteList{{ID: "x", Duration: 1, Pitch: 60}, {ID: "x", Duration: 1, Pitch: 61}}},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Validate accepted %+v", bad)
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	song := rulla.Song{
		BPM:           120,
		TimeSignature: rulla.TimeSignature{4, 4},
		Notes:         rulla.NoteList{{ID: "a", Start: 0, Duration: 20, Pitch: 60}},
	}
	cp := song.Copy()
	cp.Notes[0].Pitch = 72
	if song.Notes[0].Pitch != 60 {
		t.Fatalf("Copy shares the note slice with the original")
	}
}

func TestSamplesPerUnit(t *testing.T) {
	song := rulla.Song{BPM: 120}
	// at 120 BPM one beat is half a second, so 22050 samples over 80 units
	if got := song.SamplesPerUnit(44100); got != 22050.0/rulla.PixelsPerBeat {
		t.Fatalf("SamplesPerUnit = %v", got)
	}
}
