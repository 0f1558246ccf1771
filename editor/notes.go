package editor

import (
	"github.com/nuottila/rulla"
	"gopkg.in/yaml.v3"
)

// Notes is the view to the note material of the song, covering the edits
// that act on the current selection as a whole.
type Notes Model

func (m *Model) Notes() *Notes { return (*Notes)(m) }

func (m *Notes) Count() int    { return len(m.d.Song.Notes) }
func (m *Notes) Selected() int { return len(m.d.Selection) }

func (m *Notes) DeleteSelected() Action { return MakeAction((*deleteSelectedNotes)(m)) }

type deleteSelectedNotes Notes

func (m *deleteSelectedNotes) Enabled() bool { return len(m.d.Selection) > 0 }
func (m *deleteSelectedNotes) Do() {
	model := (*Model)(m)
	defer model.change(NoteChange, MajorChange)()
	kept := make(rulla.NoteList, 0, len(m.d.Song.Notes))
	for _, n := range m.d.Song.Notes {
		if !m.d.Selection.Contains(n.ID) {
			kept = append(kept, n)
		}
	}
	m.d.Song.Notes = kept
	m.d.Selection = nil
}

// SelectAll and Deselect only touch the selection, so they do not mark
// the song changed.

func (m *Notes) SelectAll() Action { return MakeAction((*selectAllNotes)(m)) }

type selectAllNotes Notes

func (m *selectAllNotes) Enabled() bool { return len(m.d.Song.Notes) > 0 }
func (m *selectAllNotes) Do() {
	sel := make(Selection, len(m.d.Song.Notes))
	for _, n := range m.d.Song.Notes {
		sel[n.ID] = struct{}{}
	}
	m.d.Selection = sel
}

func (m *Notes) Deselect() Action { return MakeAction((*deselectNotes)(m)) }

type deselectNotes Notes

func (m *deselectNotes) Enabled() bool { return len(m.d.Selection) > 0 }
func (m *deselectNotes) Do()           { m.d.Selection = nil }

func (m *Notes) TransposeUp() Action   { return MakeAction((*transposeSemitoneUp)(m)) }
func (m *Notes) TransposeDown() Action { return MakeAction((*transposeSemitoneDown)(m)) }
func (m *Notes) OctaveUp() Action      { return MakeAction((*transposeOctaveUp)(m)) }
func (m *Notes) OctaveDown() Action    { return MakeAction((*transposeOctaveDown)(m)) }

type (
	transposeSemitoneUp   Notes
	transposeSemitoneDown Notes
	transposeOctaveUp     Notes
	transposeOctaveDown   Notes
)

func (m *transposeSemitoneUp) Enabled() bool   { return len(m.d.Selection) > 0 }
func (m *transposeSemitoneUp) Do()             { (*Model)(m).transposeSelected(1) }
func (m *transposeSemitoneDown) Enabled() bool { return len(m.d.Selection) > 0 }
func (m *transposeSemitoneDown) Do()           { (*Model)(m).transposeSelected(-1) }
func (m *transposeOctaveUp) Enabled() bool     { return len(m.d.Selection) > 0 }
func (m *transposeOctaveUp) Do()               { (*Model)(m).transposeSelected(12) }
func (m *transposeOctaveDown) Enabled() bool   { return len(m.d.Selection) > 0 }
func (m *transposeOctaveDown) Do()             { (*Model)(m).transposeSelected(-12) }

func (m *Model) transposeSelected(semitones int) {
	if len(m.d.Selection) == 0 {
		return
	}
	defer m.change(NoteChange, MinorChange)()
	m.d.Song.Notes = m.d.Song.Notes.BulkMap(
		func(n rulla.Note) bool { return m.d.Selection.Contains(n.ID) },
		func(n rulla.Note) rulla.Note {
			n.Pitch += semitones
			return n
		})
}

// NudgeLeft and NudgeRight move the selection by one grid unit in time.

func (m *Notes) NudgeLeft() Action  { return MakeAction((*nudgeNotesLeft)(m)) }
func (m *Notes) NudgeRight() Action { return MakeAction((*nudgeNotesRight)(m)) }

type (
	nudgeNotesLeft  Notes
	nudgeNotesRight Notes
)

func (m *nudgeNotesLeft) Enabled() bool  { return len(m.d.Selection) > 0 }
func (m *nudgeNotesLeft) Do()            { (*Model)(m).nudgeSelected(-1) }
func (m *nudgeNotesRight) Enabled() bool { return len(m.d.Selection) > 0 }
func (m *nudgeNotesRight) Do()           { (*Model)(m).nudgeSelected(1) }

func (m *Model) nudgeSelected(direction int) {
	if len(m.d.Selection) == 0 {
		return
	}
	defer m.change(NoteChange, MinorChange)()
	delta := float64(direction) * m.gridConfig().gridUnit()
	m.d.Song.Notes = m.d.Song.Notes.BulkMap(
		func(n rulla.Note) bool { return m.d.Selection.Contains(n.ID) },
		func(n rulla.Note) rulla.Note {
			n.Start += delta
			return n
		})
}

// Velocity edits the velocity of the selected notes, or the default
// velocity for new notes when nothing is selected, so one knob serves
// both.
func (m *Notes) Velocity() Int { return MakeInt((*selectionVelocityInt)(m)) }

type selectionVelocityInt Notes

func (v *selectionVelocityInt) Value() int {
	m := (*Model)(v)
	for _, id := range m.d.Selection.Ordered(m.d.Song.Notes) {
		if n, ok := m.NoteByID(id); ok {
			return n.Velocity
		}
	}
	return m.d.NoteVelocity
}

func (v *selectionVelocityInt) Range() RangeInclusive { return RangeInclusive{1, 127} }

func (v *selectionVelocityInt) SetValue(value int) bool {
	m := (*Model)(v)
	if len(m.d.Selection) == 0 {
		defer m.change(SettingChange, MinorChange)()
		m.d.NoteVelocity = value
		return true
	}
	defer m.change(NoteChange, MinorChange)()
	m.d.Song.Notes = m.d.Song.Notes.BulkMap(
		func(n rulla.Note) bool { return m.d.Selection.Contains(n.ID) },
		func(n rulla.Note) rulla.Note {
			n.Velocity = value
			return n
		})
	return true
}

// Copy marshals the selected notes for the clipboard, in list order.
func (m *Notes) Copy() ([]byte, bool) {
	ids := m.d.Selection.Ordered(m.d.Song.Notes)
	if len(ids) == 0 {
		return nil, false
	}
	notes := make(rulla.NoteList, 0, len(ids))
	for _, id := range ids {
		if n, ok := (*Model)(m).NoteByID(id); ok {
			notes = append(notes, n)
		}
	}
	ret, err := yaml.Marshal(struct{ Notes rulla.NoteList }{notes})
	if err != nil {
		return nil, false
	}
	return ret, true
}

// Paste inserts the clipboard notes one grid unit to the right of where
// they were copied, with fresh ids, and selects them.
func (m *Notes) Paste(data []byte) bool {
	var clip struct{ Notes rulla.NoteList }
	if err := yaml.Unmarshal(data, &clip); err != nil || len(clip.Notes) == 0 {
		return false
	}
	model := (*Model)(m)
	defer model.change(NoteChange, MajorChange)()
	offset := model.gridConfig().gridUnit()
	sel := make(Selection, len(clip.Notes))
	for _, n := range clip.Notes {
		n.ID = rulla.NewNoteID()
		n.Start += offset
		notes, err := m.d.Song.Notes.Insert(n)
		if err != nil {
			continue
		}
		m.d.Song.Notes = notes
		sel[n.ID] = struct{}{}
	}
	if len(sel) == 0 {
		return false
	}
	m.d.Selection = sel
	return true
}
