package editor_test

import (
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

func testFrame() editor.RollFrame {
	return editor.RollFrame{
		Viewport: editor.Viewport{Width: 400, Height: 300, Zoom: 2},
		Notes: rulla.NoteList{
			{ID: "sel", Start: 40, Duration: 60, Pitch: 127, Velocity: 127, Lyric: "laa"},
			{ID: "plain", Start: 120, Duration: 40, Pitch: 126, Velocity: 0, Lyric: "abcdefgh"},
			{ID: "tiny", Start: 240, Duration: 10, Pitch: 125, Velocity: 50, Lyric: "x"},
			{ID: "right", Start: 10000, Duration: 60, Pitch: 127, Velocity: 100},
			{ID: "below", Start: 40, Duration: 60, Pitch: 60, Velocity: 100},
		},
		Selection:     editor.Selection{"sel": {}},
		TimeSignature: ts44,
		Snap:          rulla.SnapQuarter,
	}
}

func fillsWithRole(ops []editor.DrawOp, role editor.ColorRole) (ret []editor.FillRect) {
	for _, op := range ops {
		if f, ok := op.(editor.FillRect); ok && f.Role == role {
			ret = append(ret, f)
		}
	}
	return ret
}

func linesWithRole(ops []editor.DrawOp, role editor.ColorRole) (ret []editor.Line) {
	for _, op := range ops {
		if l, ok := op.(editor.Line); ok && l.Role == role {
			ret = append(ret, l)
		}
	}
	return ret
}

func textBoxes(ops []editor.DrawOp) (ret []editor.TextBox) {
	for _, op := range ops {
		if tb, ok := op.(editor.TextBox); ok {
			ret = append(ret, tb)
		}
	}
	return ret
}

func TestRenderBackgroundFirst(t *testing.T) {
	ops := testFrame().Render()
	if len(ops) == 0 {
		t.Fatal("no ops")
	}
	bg, ok := ops[0].(editor.FillRect)
	if !ok || bg.Role != editor.RoleBackground {
		t.Fatalf("ops[0] = %+v, want the background fill", ops[0])
	}
	if bg.W != 400 || bg.H != 300 {
		t.Fatalf("background = %vx%v, want the whole viewport", bg.W, bg.H)
	}
}

func TestRenderGridLines(t *testing.T) {
	ops := testFrame().Render()
	// beats 0..5 are on screen; 0 and 4 start a measure in 4/4
	if got := linesWithRole(ops, editor.RoleMeasureLine); len(got) != 2 {
		t.Errorf("measure lines = %d, want 2", len(got))
	}
	if got := linesWithRole(ops, editor.RoleBeatLine); len(got) != 4 {
		t.Errorf("beat lines = %d, want 4", len(got))
	}
	// 1/4 snap splits a beat in four; the last beat's ticks fall off screen
	if got := linesWithRole(ops, editor.RoleSubdivisionLine); len(got) != 15 {
		t.Errorf("subdivision lines = %d, want 15", len(got))
	}
	// rows for pitches 127..112 are visible, six of them black keys
	if got := fillsWithRole(ops, editor.RoleBlackKeyRow); len(got) != 6 {
		t.Errorf("black key rows = %d, want 6", len(got))
	}
}

func TestRenderNotes(t *testing.T) {
	ops := testFrame().Render()
	sel := fillsWithRole(ops, editor.RoleNoteSelected)
	if len(sel) != 1 {
		t.Fatalf("selected fills = %d, want 1", len(sel))
	}
	if sel[0].X != 40 || sel[0].Y != 0 || sel[0].W != 60 || sel[0].H != rulla.RowHeight {
		t.Errorf("selected note rect = %+v", sel[0])
	}
	// the culled notes leave exactly the two unselected visible ones
	if got := fillsWithRole(ops, editor.RoleNoteFill); len(got) != 2 {
		t.Errorf("plain fills = %d, want 2", len(got))
	}
	// full velocity covers the note, zero velocity draws no band
	bands := fillsWithRole(ops, editor.RoleVelocityBand)
	if len(bands) != 2 {
		t.Fatalf("velocity bands = %d, want 2", len(bands))
	}
	if bands[0].H != rulla.RowHeight || bands[0].Y != 0 {
		t.Errorf("full velocity band = %+v, want the whole note height", bands[0])
	}
}

func TestRenderLyrics(t *testing.T) {
	ops := testFrame().Render()
	boxes := textBoxes(ops)
	if len(boxes) != 2 {
		t.Fatalf("text boxes = %d, want 2", len(boxes))
	}
	if boxes[0].S != "laa" {
		t.Errorf("short lyric = %q, want untruncated", boxes[0].S)
	}
	if boxes[1].S != "abcd…" {
		t.Errorf("long lyric on a narrow note = %q, want truncated with ellipsis", boxes[1].S)
	}
}

func TestRenderPlayhead(t *testing.T) {
	f := testFrame()
	if got := linesWithRole(f.Render(), editor.RolePlayhead); len(got) != 0 {
		t.Fatalf("stopped frame has %d playheads", len(got))
	}
	f.Playing = true
	f.Playhead = 100
	got := linesWithRole(f.Render(), editor.RolePlayhead)
	if len(got) != 1 {
		t.Fatalf("playing frame has %d playheads, want 1", len(got))
	}
	if got[0].X1 != 100 || got[0].X2 != 100 {
		t.Errorf("playhead at x = %v, want 100", got[0].X1)
	}
	f.Playhead = 5000
	if got := linesWithRole(f.Render(), editor.RolePlayhead); len(got) != 0 {
		t.Fatalf("off screen playhead still drawn")
	}
}

func TestRenderScrollCullsNotes(t *testing.T) {
	f := testFrame()
	f.Viewport.ScrollX = 500
	ops := f.Render()
	if got := fillsWithRole(ops, editor.RoleNoteSelected); len(got) != 0 {
		t.Errorf("note left of the view still drawn")
	}
	if got := fillsWithRole(ops, editor.RoleNoteFill); len(got) != 0 {
		t.Errorf("culling missed a note: %v", got)
	}
}

func TestRenderZoomScalesNotes(t *testing.T) {
	f := testFrame()
	f.Viewport.Zoom = 3 // factor 2
	sel := fillsWithRole(f.Render(), editor.RoleNoteSelected)
	if len(sel) != 1 {
		t.Fatalf("selected fills = %d, want 1", len(sel))
	}
	if sel[0].X != 80 || sel[0].W != 120 || sel[0].H != 2*rulla.RowHeight {
		t.Errorf("zoomed note rect = %+v, want doubled", sel[0])
	}
}

func TestRenderDeterministic(t *testing.T) {
	f := testFrame()
	a, b := f.Render(), f.Render()
	if len(a) != len(b) {
		t.Fatalf("op counts differ: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("op %d differs: %+v != %+v", i, a[i], b[i])
		}
	}
}
