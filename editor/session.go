package editor

import (
	"math"

	"github.com/nuottila/rulla"
)

// Pointer gestures on the roll run through a single reducer instead of
// ambient mutable drag state. A Session value says what gesture is in
// flight, Reduce folds one pointer or text event into it and returns the
// next session together with the resulting notes and selection. The
// reducer never touches anything outside its arguments, so every gesture
// is testable without a window.

type (
	// Session is what the pointer is currently doing on the roll. Exactly
	// one gesture is active at a time; every gesture ends in Idle.
	Session interface{ session() }

	Idle struct{}

	// Creating tracks a note being drawn out: the far edge follows the
	// pointer until release. Anchor is the quantized start of the note,
	// LastX the most recent pointer position so that a pointer leaving the
	// window finishes the gesture the same way a release does.
	Creating struct {
		ID     rulla.NoteID
		Anchor float64
		LastX  float64
	}

	// Dragging moves every selected note by the pointer delta. Origins
	// holds the note values captured at press time; moves always derive
	// from these so quantization never accumulates error.
	Dragging struct {
		IDs              []rulla.NoteID
		AnchorX, AnchorY float64
		Origins          map[rulla.NoteID]rulla.Note
	}

	// Resizing adjusts the duration of a single note grabbed by its end
	// edge. Origin is the duration at press time.
	Resizing struct {
		ID      rulla.NoteID
		AnchorX float64
		Origin  float64
	}

	// Erasing is an eraser sweep: every note the pointer passes over is
	// removed until release.
	Erasing struct{}

	// EditingLyric is open text entry on one note. Buffer is the lyric as
	// captured when the editor opened; the live text lives in the text
	// widget and arrives with CommitLyric.
	EditingLyric struct {
		ID     rulla.NoteID
		Buffer string
	}
)

func (Idle) session()         {}
func (Creating) session()     {}
func (Dragging) session()     {}
func (Resizing) session()     {}
func (Erasing) session()      {}
func (EditingLyric) session() {}

type (
	// Event is one input to Reduce. Pointer coordinates are in content
	// space: scroll offsets and zoom are already unapplied by the caller.
	Event interface{ event() }

	PointerDown struct {
		X, Y   float64
		Multi  bool // multi-select modifier held
		Double bool // second press of a double click
	}
	PointerMove struct{ X, Y float64 }
	PointerUp   struct{ X, Y float64 }

	// Cancel is a pointer leaving the surface or the gesture being
	// interrupted. It finishes the gesture exactly like a release at the
	// last known position.
	Cancel struct{}

	CommitLyric  struct{ Text string }
	DiscardLyric struct{}
)

func (PointerDown) event()  {}
func (PointerMove) event()  {}
func (PointerUp) event()    {}
func (Cancel) event()       {}
func (CommitLyric) event()  {}
func (DiscardLyric) event() {}

type (
	// Notification is an outbound change event for collaborators outside
	// the reducer. Payloads are full snapshots, not deltas.
	Notification interface{ notification() }

	NotesChanged struct{ Notes rulla.NoteList }
)

func (NotesChanged) notification() {}

// EditMode is the pointer-down policy of the roll, set from the toolbar.
type EditMode int

const (
	ModeSelect EditMode = iota
	ModeDraw
	ModeErase
)

// String returns the canonical lower case name of the mode; display
// casing is up to the caller.
func (m EditMode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeErase:
		return "erase"
	}
	return "select"
}

// EditState is the data a gesture reads and rewrites. Both fields have
// value semantics; Reduce returns a new state and leaves its argument
// alone.
type EditState struct {
	Notes     rulla.NoteList
	Selection Selection
}

// GridConfig is the slice of settings a gesture needs.
type GridConfig struct {
	TimeSignature rulla.TimeSignature
	Snap          rulla.Snap
	Mode          EditMode
	Velocity      int // velocity for notes drawn on the roll
}

func (c GridConfig) quantize(x float64) float64 { return c.Snap.SnapToGrid(x) }
func (c GridConfig) gridUnit() float64          { return c.Snap.GridUnit() }

func (c GridConfig) velocity() int {
	if c.Velocity < 1 || c.Velocity > 127 {
		return DefaultNoteVelocity
	}
	return c.Velocity
}

const (
	DefaultNoteVelocity = 100

	// Width of the grab zone at the end edge of a note.
	resizeHotzone = 10.0

	// Duration a drawn note shows before the pointer has moved anywhere.
	createSeedDuration = rulla.PixelsPerBeat / 8
)

// Reduce folds one event into the current session. It returns the next
// session, the possibly rewritten edit state and the notifications to
// deliver. An event that does not apply to the current session is a no-op.
func Reduce(s Session, e Event, state EditState, cfg GridConfig) (Session, EditState, []Notification) {
	switch ev := e.(type) {
	case PointerDown:
		if _, ok := s.(EditingLyric); ok {
			// The text widget commits pending edits through focus loss
			// before presses reach the roll, so a press arriving here just
			// closes the editor.
			s = Idle{}
		}
		if _, ok := s.(Idle); !ok {
			return s, state, nil
		}
		return reducePress(ev, state, cfg)
	case PointerMove:
		return reduceMove(s, ev, state, cfg)
	case PointerUp:
		if c, ok := s.(Creating); ok {
			return finishCreate(c, ev.X, state, cfg)
		}
		return Idle{}, state, nil
	case Cancel:
		if c, ok := s.(Creating); ok {
			return finishCreate(c, c.LastX, state, cfg)
		}
		return Idle{}, state, nil
	case CommitLyric:
		le, ok := s.(EditingLyric)
		if !ok {
			return s, state, nil
		}
		state.Notes = state.Notes.Update(le.ID, func(n rulla.Note) rulla.Note {
			n.Lyric = ev.Text
			return n
		})
		return Idle{}, state, []Notification{NotesChanged{state.Notes}}
	case DiscardLyric:
		if _, ok := s.(EditingLyric); ok {
			return Idle{}, state, nil
		}
	}
	return s, state, nil
}

func reducePress(ev PointerDown, state EditState, cfg GridConfig) (Session, EditState, []Notification) {
	hit, found := state.Notes.FindAt(ev.X, ev.Y)
	if ev.Double && found {
		return EditingLyric{ID: hit.ID, Buffer: hit.Lyric}, state, nil
	}
	switch {
	case cfg.Mode == ModeErase:
		// The sweep starts whether or not the press hit anything, so the
		// eraser can be dragged into notes from empty space.
		if !found {
			return Erasing{}, state, nil
		}
		var removed bool
		state.Notes, removed = state.Notes.Remove(hit.ID)
		if !removed {
			return Erasing{}, state, nil
		}
		state.Selection = state.Selection.Without(hit.ID)
		return Erasing{}, state, []Notification{NotesChanged{state.Notes}}
	case cfg.Mode == ModeDraw && !found:
		start := cfg.quantize(ev.X)
		note := rulla.Note{
			ID:       rulla.NewNoteID(),
			Start:    start,
			Duration: createSeedDuration,
			Pitch:    rulla.YPitch(ev.Y),
			Velocity: cfg.velocity(),
		}
		notes, err := state.Notes.Insert(note)
		if err != nil {
			return Idle{}, state, nil
		}
		state.Notes = notes
		if ev.Multi {
			state.Selection = state.Selection.With(note.ID)
		} else {
			state.Selection = Selection{note.ID: struct{}{}}
		}
		return Creating{ID: note.ID, Anchor: start, LastX: ev.X}, state,
			[]Notification{NotesChanged{state.Notes}}
	default:
		// Select mode. Drawing on top of an existing note lands here too,
		// so a drawn note can be moved without switching modes.
		if !found {
			if !ev.Multi {
				state.Selection = nil
			}
			return Idle{}, state, nil
		}
		if hit.End()-ev.X < resizeHotzone {
			return Resizing{ID: hit.ID, AnchorX: ev.X, Origin: hit.Duration}, state, nil
		}
		switch {
		case ev.Multi:
			state.Selection = state.Selection.With(hit.ID)
		case !state.Selection.Contains(hit.ID):
			// Pressing inside an already selected group keeps the group,
			// so a multi-note drag can start from any of its notes.
			state.Selection = Selection{hit.ID: struct{}{}}
		}
		ids := state.Selection.Ordered(state.Notes)
		origins := make(map[rulla.NoteID]rulla.Note, len(ids))
		for _, id := range ids {
			if n, ok := state.Notes.Get(id); ok {
				origins[id] = n
			}
		}
		return Dragging{IDs: ids, AnchorX: ev.X, AnchorY: ev.Y, Origins: origins}, state, nil
	}
}

func reduceMove(s Session, ev PointerMove, state EditState, cfg GridConfig) (Session, EditState, []Notification) {
	switch sess := s.(type) {
	case Creating:
		d := max(cfg.quantize(ev.X-sess.Anchor), createSeedDuration)
		state.Notes = state.Notes.Update(sess.ID, func(n rulla.Note) rulla.Note {
			n.Duration = d
			return n
		})
		sess.LastX = ev.X
		return sess, state, []Notification{NotesChanged{state.Notes}}
	case Dragging:
		dx := cfg.quantize(ev.X - sess.AnchorX)
		rows := pointerRow(ev.Y) - pointerRow(sess.AnchorY)
		state.Notes = state.Notes.BulkMap(func(n rulla.Note) bool {
			_, ok := sess.Origins[n.ID]
			return ok
		}, func(n rulla.Note) rulla.Note {
			o := sess.Origins[n.ID]
			n.Start = math.Max(o.Start+dx, 0)
			n.Pitch = clampPitch(o.Pitch - rows)
			return n
		})
		return sess, state, []Notification{NotesChanged{state.Notes}}
	case Resizing:
		d := max(sess.Origin+cfg.quantize(ev.X-sess.AnchorX), cfg.gridUnit())
		state.Notes = state.Notes.Update(sess.ID, func(n rulla.Note) rulla.Note {
			n.Duration = d
			return n
		})
		return sess, state, []Notification{NotesChanged{state.Notes}}
	case Erasing:
		hit, found := state.Notes.FindAt(ev.X, ev.Y)
		if !found {
			return sess, state, nil
		}
		var removed bool
		state.Notes, removed = state.Notes.Remove(hit.ID)
		if !removed {
			return sess, state, nil
		}
		state.Selection = state.Selection.Without(hit.ID)
		return sess, state, []Notification{NotesChanged{state.Notes}}
	}
	return s, state, nil
}

// finishCreate commits or discards the note being drawn. A gesture that
// quantizes to less than a quarter of the grid unit was an accidental
// click, not a note.
func finishCreate(c Creating, x float64, state EditState, cfg GridConfig) (Session, EditState, []Notification) {
	final := cfg.quantize(x - c.Anchor)
	if final < cfg.gridUnit()/4 {
		var removed bool
		state.Notes, removed = state.Notes.Remove(c.ID)
		state.Selection = state.Selection.Without(c.ID)
		if !removed {
			return Idle{}, state, nil
		}
		return Idle{}, state, []Notification{NotesChanged{state.Notes}}
	}
	state.Notes = state.Notes.Update(c.ID, func(n rulla.Note) rulla.Note {
		n.Duration = final
		return n
	})
	return Idle{}, state, []Notification{NotesChanged{state.Notes}}
}

func pointerRow(y float64) int {
	return int(math.Floor(y / rulla.RowHeight))
}

func clampPitch(p int) int {
	return min(max(p, 0), rulla.MaxPitch)
}
