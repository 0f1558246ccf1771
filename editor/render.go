package editor

import (
	"math"

	"github.com/nuottila/rulla"
)

type (
	// DrawOp is one drawing command in screen pixels. A frame renders to a
	// flat list of these, back to front; the GUI rasterizes them and tests
	// inspect them without any drawing surface.
	DrawOp interface{ drawOp() }

	FillRect struct {
		X, Y, W, H float64
		Role       ColorRole
	}
	StrokeRect struct {
		X, Y, W, H float64
		Role       ColorRole
	}
	Line struct {
		X1, Y1, X2, Y2 float64
		Role           ColorRole
	}
	// TextBox is a string laid out centered inside a rectangle. The string
	// is already truncated to what fits.
	TextBox struct {
		X, Y, W, H float64
		S          string
		Role       ColorRole
	}
)

func (FillRect) drawOp()   {}
func (StrokeRect) drawOp() {}
func (Line) drawOp()       {}
func (TextBox) drawOp()    {}

// ColorRole names what an op draws; the theme decides what each role
// looks like.
type ColorRole int

const (
	RoleBackground ColorRole = iota
	RoleBlackKeyRow
	RoleMeasureLine
	RoleBeatLine
	RoleSubdivisionLine
	RoleNoteFill
	RoleNoteSelected
	RoleNoteBorder
	RoleVelocityBand
	RoleLyricText
	RolePlayhead
)

// RollFrame is everything one frame of the roll depends on.
type RollFrame struct {
	Viewport      Viewport
	Notes         rulla.NoteList
	Selection     Selection
	TimeSignature rulla.TimeSignature
	Snap          rulla.Snap
	Playhead      float64
	Playing       bool
}

// Render turns the frame into draw ops. It never mutates anything and the
// same frame always yields the same ops, so frames can be replayed and
// compared. Everything outside the viewport is culled before any op is
// emitted.
func (f RollFrame) Render() []DrawOp {
	v := f.Viewport
	zf := v.ZoomFactor()
	ops := make([]DrawOp, 0, 64)
	ops = append(ops, FillRect{W: v.Width, H: v.Height, Role: RoleBackground})

	rowH := rulla.RowHeight * zf
	firstRow := int(math.Floor(v.ScrollY / rulla.RowHeight))
	lastRow := int(math.Ceil((v.ScrollY + v.VisibleHeight()) / rulla.RowHeight))
	for row := max(firstRow, 0); row <= min(lastRow, rulla.NumPitches-1); row++ {
		if !rulla.IsBlackKey(rulla.RowPitch(row)) {
			continue
		}
		_, y := v.ContentToScreen(0, float64(row)*rulla.RowHeight)
		ops = append(ops, FillRect{Y: y, W: v.Width, H: rowH, Role: RoleBlackKeyRow})
	}

	ts := f.TimeSignature.Clamped()
	firstBeat := int(math.Floor(v.ScrollX / rulla.PixelsPerBeat))
	lastBeat := int(math.Ceil((v.ScrollX + v.VisibleWidth()) / rulla.PixelsPerBeat))
	offsets := f.Snap.SubdivisionOffsets(ts)
	for beat := max(firstBeat, 0); beat <= lastBeat; beat++ {
		bx := float64(beat) * rulla.PixelsPerBeat
		if x, _ := v.ContentToScreen(bx, 0); x >= 0 && x <= v.Width {
			role := RoleBeatLine
			if beat%ts.Numerator == 0 {
				role = RoleMeasureLine
			}
			ops = append(ops, Line{X1: x, X2: x, Y2: v.Height, Role: role})
		}
		// Offsets exclude the beat position itself, so a subdivision never
		// lands on a beat or measure line.
		for _, off := range offsets {
			if x, _ := v.ContentToScreen(bx+off, 0); x >= 0 && x <= v.Width {
				ops = append(ops, Line{X1: x, X2: x, Y2: v.Height, Role: RoleSubdivisionLine})
			}
		}
	}

	for _, n := range f.Notes {
		x, y := v.ContentToScreen(n.Start, rulla.RowTop(n.Pitch))
		w := n.Duration * zf
		h := rowH
		if x >= v.Width || x+w <= 0 || y >= v.Height || y+h <= 0 {
			continue
		}
		fill := RoleNoteFill
		if f.Selection.Contains(n.ID) {
			fill = RoleNoteSelected
		}
		ops = append(ops, FillRect{X: x, Y: y, W: w, H: h, Role: fill})
		ops = append(ops, StrokeRect{X: x, Y: y, W: w, H: h, Role: RoleNoteBorder})
		if n.Velocity > 0 {
			bh := h * float64(n.Velocity) / 127
			ops = append(ops, FillRect{X: x, Y: y + h - bh, W: w, H: bh, Role: RoleVelocityBand})
		}
		if s := fitLyric(n.Lyric, w); s != "" {
			ops = append(ops, TextBox{X: x, Y: y, W: w, H: h, S: s, Role: RoleLyricText})
		}
	}

	if f.Playing {
		if x, _ := v.ContentToScreen(f.Playhead, 0); x >= 0 && x <= v.Width {
			ops = append(ops, Line{X1: x, X2: x, Y2: v.Height, Role: RolePlayhead})
		}
	}
	return ops
}

// Rough glyph width of the lyric font. Only used for fitting, so an
// average is enough.
const lyricGlyphWidth = 7.0

const lyricPadding = 2.0

// fitLyric truncates a lyric to what the note width can hold, with a
// trailing ellipsis. Returns "" when not even a couple of glyphs would be
// legible.
func fitLyric(lyric string, width float64) string {
	if lyric == "" {
		return ""
	}
	capacity := int((width - 2*lyricPadding) / lyricGlyphWidth)
	if capacity < 2 {
		return ""
	}
	runes := []rune(lyric)
	if len(runes) <= capacity {
		return lyric
	}
	return string(runes[:capacity-1]) + "…"
}
