package rulla

import (
	"errors"

	"github.com/google/uuid"
)

type (
	// NoteID identifies a note for its entire lifetime. IDs are opaque and
	// never recycled; a pasted or duplicated note always gets a fresh one.
	NoteID string

	// Note is a single timed event on the roll. Start and Duration are in
	// time units: one unit is one horizontal pixel at reference zoom, with
	// PixelsPerBeat units to a beat. Pitch and Velocity follow the MIDI
	// convention of 0-127. The Lyric is free text drawn inside the note.
	Note struct {
		ID       NoteID
		Start    float64
		Duration float64
		Pitch    int
		Velocity int
		Lyric    string `yaml:",omitempty" json:",omitempty"`
	}

	// NoteList is an insertion ordered collection of notes. The order doubles
	// as the z-order: when notes overlap, the latest insertion wins hit
	// tests. All mutating methods leave the receiver untouched and return a
	// new list, so a list handed out as a snapshot stays valid forever.
	NoteList []Note
)

// ErrInvalidNote rejects an insert whose duration is not positive or whose
// pitch falls outside the 0-127 range. No other note operation errors; they
// clamp instead.
var ErrInvalidNote = errors.New("invalid note")

func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

func (n Note) End() float64 {
	return n.Start + n.Duration
}

// sanitized clamps the freely adjustable fields into their domains. The
// duration is not touched here as insert rejects and update keeps the old
// value instead.
func (n Note) sanitized() Note {
	n.Start = max(n.Start, 0)
	n.Pitch = min(max(n.Pitch, 0), MaxPitch)
	n.Velocity = min(max(n.Velocity, 0), 127)
	return n
}

func (l NoteList) Copy() NoteList {
	if l == nil {
		return nil
	}
	ret := make(NoteList, len(l))
	copy(ret, l)
	return ret
}

// IndexOf returns the position of the note with the given id, or -1 when no
// such note exists.
func (l NoteList) IndexOf(id NoteID) int {
	for i, n := range l {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (l NoteList) Get(id NoteID) (Note, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l[i], true
	}
	return Note{}, false
}

// MaxEnd returns the end of the last ending note, which bounds the content
// width of the roll.
func (l NoteList) MaxEnd() float64 {
	var ret float64
	for _, n := range l {
		ret = max(ret, n.End())
	}
	return ret
}

// Insert validates the note, assigns an id if it has none and appends it to
// the end of a copy of the list, making it the topmost note of its rows.
func (l NoteList) Insert(n Note) (NoteList, error) {
	if n.Duration <= 0 || n.Pitch < 0 || n.Pitch > MaxPitch {
		return l, ErrInvalidNote
	}
	if n.ID == "" {
		n.ID = NewNoteID()
	}
	ret := make(NoteList, len(l), len(l)+1)
	copy(ret, l)
	return append(ret, n.sanitized()), nil
}

// Update applies f to the note with the given id and returns a list with the
// result in place of the original. The id is immutable and a non-positive
// duration returned by f keeps the old duration. Updating an unknown id is a
// no-op.
func (l NoteList) Update(id NoteID, f func(Note) Note) NoteList {
	i := l.IndexOf(id)
	if i < 0 {
		return l
	}
	ret := l.Copy()
	n := f(ret[i])
	n.ID = id
	if n.Duration <= 0 {
		n.Duration = ret[i].Duration
	}
	ret[i] = n.sanitized()
	return ret
}

// Remove returns a list without the note of the given id, reporting whether
// it was present. The relative order of the remaining notes is kept.
func (l NoteList) Remove(id NoteID) (NoteList, bool) {
	i := l.IndexOf(id)
	if i < 0 {
		return l, false
	}
	ret := make(NoteList, 0, len(l)-1)
	ret = append(ret, l[:i]...)
	return append(ret, l[i+1:]...), true
}

// BulkMap applies f to every note matched by pred, keeping order and ids. It
// is the workhorse of multi note edits such as transposing a selection.
func (l NoteList) BulkMap(pred func(Note) bool, f func(Note) Note) NoteList {
	ret := l.Copy()
	for i, n := range ret {
		if !pred(n) {
			continue
		}
		m := f(n)
		m.ID = n.ID
		if m.Duration <= 0 {
			m.Duration = n.Duration
		}
		ret[i] = m.sanitized()
	}
	return ret
}

// FindAt returns the topmost note whose rectangle contains the point (x, y)
// in reference pixel coordinates, y growing downwards from pitch 127. A note
// covers [Start, End) horizontally and its full row vertically.
func (l NoteList) FindAt(x, y float64) (Note, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		n := l[i]
		top := RowTop(n.Pitch)
		if x >= n.Start && x < n.End() && y >= top && y < top+RowHeight {
			return n, true
		}
	}
	return Note{}, false
}

// AssignMissingIDs returns a list where every note without an id got a fresh
// one. Files written by other tools are allowed to omit ids.
func (l NoteList) AssignMissingIDs() NoteList {
	ret := l.Copy()
	for i, n := range ret {
		if n.ID == "" {
			ret[i].ID = NewNoteID()
		}
	}
	return ret
}
