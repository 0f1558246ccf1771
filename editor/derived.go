package editor

import (
	"github.com/nuottila/rulla"
)

/*
	from modelData we can derive useful information which can be cached for
	performance, or just to keep the code cleaner. These values need to be
	updated when the notes change, so the update always happens in the
	change() closure of the model.
*/

type derivedModelData struct {
	// noteIndex finds the current slice position of a note from its id
	noteIndex map[rulla.NoteID]int

	// notesEnd is the right edge of the rightmost note
	notesEnd float64

	// contentWidth is the scrollable width of the roll, a full measure
	// past the last note and never less than the minimum roll length
	contentWidth float64
}

func (m *Model) initDerivedData() {
	m.derived = derivedModelData{}
	m.updateDerivedNoteData()
}

// updateDerivedNoteData is called automatically when the notes or the
// time signature change.
func (m *Model) updateDerivedNoteData() {
	notes := m.d.Song.Notes
	m.derived.noteIndex = make(map[rulla.NoteID]int, len(notes))
	for i, n := range notes {
		m.derived.noteIndex[n.ID] = i
	}
	m.derived.notesEnd = notes.MaxEnd()
	m.derived.contentWidth = ContentWidth(notes, m.d.Song.TimeSignature)
}

// NoteByID returns the current value of the note with the given id.
func (m *Model) NoteByID(id rulla.NoteID) (rulla.Note, bool) {
	i, ok := m.derived.noteIndex[id]
	if !ok || i >= len(m.d.Song.Notes) {
		return rulla.Note{}, false
	}
	return m.d.Song.Notes[i], true
}

// ContentWidth returns the scrollable width of the roll in content units.
func (m *Model) ContentWidth() float64 { return m.derived.contentWidth }

// NotesEnd returns the right edge of the rightmost note, 0 for an empty
// song.
func (m *Model) NotesEnd() float64 { return m.derived.notesEnd }
