package rulla

import (
	"errors"
	"fmt"
)

// Tempo limits enforced when loading and editing. Values outside the range
// are clamped, never rejected.
const (
	MinBPM     = 20
	MaxBPM     = 300
	DefaultBPM = 120
)

type (
	// Song couples the note material of the roll with the settings needed
	// to play and draw it. BPM is an integer as that offers already quite
	// much granularity for controlling the playback speed. The time
	// signature only shapes the grid; notes keep their values when it
	// changes.
	Song struct {
		Title         string `yaml:",omitempty" json:",omitempty"`
		Author        string `yaml:",omitempty" json:",omitempty"`
		BPM           int
		TimeSignature TimeSignature
		Notes         NoteList
	}
)

func (s Song) Copy() Song {
	s.Notes = s.Notes.Copy()
	return s
}

// Validate reports the first problem that would make the song unplayable or
// undrawable. Use Normalized to fix instead of reject.
func (s Song) Validate() error {
	if s.BPM < MinBPM || s.BPM > MaxBPM {
		return fmt.Errorf("BPM %d outside [%d, %d]", s.BPM, MinBPM, MaxBPM)
	}
	if !s.TimeSignature.Valid() {
		return fmt.Errorf("time signature %s not one of the allowed options", s.TimeSignature)
	}
	seen := make(map[NoteID]bool, len(s.Notes))
	for i, n := range s.Notes {
		if n.Duration <= 0 {
			return fmt.Errorf("note %d has non-positive duration", i)
		}
		if n.Pitch < 0 || n.Pitch > MaxPitch {
			return fmt.Errorf("note %d has pitch %d outside [0, %d]", i, n.Pitch, MaxPitch)
		}
		if n.Start < 0 {
			return fmt.Errorf("note %d starts before zero", i)
		}
		if n.ID != "" && seen[n.ID] {
			return errors.New("duplicate note id " + string(n.ID))
		}
		seen[n.ID] = true
	}
	return nil
}

// Normalized clamps every out of domain value to its nearest allowed one,
// drops notes that Insert would reject and assigns ids to notes that came
// from files without them. Loading goes through this so the editor never
// starts from a broken state.
func (s Song) Normalized() Song {
	s = s.Copy()
	s.BPM = min(max(s.BPM, MinBPM), MaxBPM)
	s.TimeSignature = s.TimeSignature.Clamped()
	notes := make(NoteList, 0, len(s.Notes))
	seen := make(map[NoteID]bool, len(s.Notes))
	for _, n := range s.Notes {
		if n.Duration <= 0 || n.Pitch < 0 || n.Pitch > MaxPitch {
			continue
		}
		if n.ID == "" || seen[n.ID] {
			n.ID = NewNoteID()
		}
		seen[n.ID] = true
		notes = append(notes, n.sanitized())
	}
	s.Notes = notes
	return s
}
