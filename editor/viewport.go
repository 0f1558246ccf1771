package editor

import (
	"math"

	"github.com/nuottila/rulla"
)

// ViewportChanged reports new scroll offsets. The timeline ruler and the
// piano key strip share the roll's viewport through these.
type ViewportChanged struct{ X, Y float64 }

func (ViewportChanged) notification() {}

var zoomFactors = [...]float64{0.25, 0.5, 1, 2, 4}

const (
	defaultZoomLevel = 2

	// The roll never shrinks below this many measures, so an empty song
	// still has a surface to draw on.
	minContentMeasures = 16
)

// ContentHeight is the full vertical extent of the roll in content units,
// one row per pitch.
const ContentHeight = rulla.NumPitches * rulla.RowHeight

// ContentWidth is the full horizontal extent of the roll: the notes
// rounded up to whole measures plus one empty measure to draw into, but
// never less than minContentMeasures measures.
func ContentWidth(notes rulla.NoteList, ts rulla.TimeSignature) float64 {
	mw := ts.Clamped().MeasureWidth()
	measures := math.Ceil(notes.MaxEnd()/mw) + 1
	if measures < minContentMeasures {
		measures = minContentMeasures
	}
	return measures * mw
}

// Viewport is the visible window onto the roll. Scroll offsets are in
// content units and name the top left visible point. Width and Height are
// the widget size in screen pixels and Zoom indexes zoomFactors; screen
// pixels are content units times the zoom factor. Methods return an
// adjusted copy, so a viewport can sit inside a snapshot like everything
// else the GUI reads.
type Viewport struct {
	ScrollX, ScrollY float64
	Width, Height    float64
	Zoom             int
}

// NewViewport opens at reference zoom, scrolled so the octaves around
// middle C are in view once the first resize arrives.
func NewViewport() Viewport {
	return Viewport{Zoom: defaultZoomLevel, ScrollY: rulla.RowTop(76)}
}

func (v Viewport) ZoomFactor() float64 {
	if v.Zoom < 0 || v.Zoom >= len(zoomFactors) {
		return 1
	}
	return zoomFactors[v.Zoom]
}

// VisibleWidth is the span of content units the viewport shows
// horizontally.
func (v Viewport) VisibleWidth() float64 { return v.Width / v.ZoomFactor() }

// VisibleHeight is the span of content units the viewport shows
// vertically.
func (v Viewport) VisibleHeight() float64 { return v.Height / v.ZoomFactor() }

func (v Viewport) clamped(contentW float64) Viewport {
	v.ScrollX = clampScroll(v.ScrollX, contentW-v.VisibleWidth())
	v.ScrollY = clampScroll(v.ScrollY, ContentHeight-v.VisibleHeight())
	return v
}

func clampScroll(x, bound float64) float64 {
	if bound < 0 {
		bound = 0
	}
	return math.Min(math.Max(x, 0), bound)
}

// Scrolled moves by a wheel delta given in screen pixels, reporting
// whether anything changed after clamping.
func (v Viewport) Scrolled(dx, dy, contentW float64) (Viewport, bool) {
	f := v.ZoomFactor()
	moved := v
	moved.ScrollX += dx / f
	moved.ScrollY += dy / f
	moved = moved.clamped(contentW)
	return moved, moved != v
}

// WithScroll jumps to absolute offsets, clamped to the scrollable range.
func (v Viewport) WithScroll(x, y, contentW float64) (Viewport, bool) {
	moved := v
	moved.ScrollX = x
	moved.ScrollY = y
	moved = moved.clamped(contentW)
	return moved, moved != v
}

// Resized adopts a new widget size and re-clamps, keeping the top left
// point where it was whenever possible.
func (v Viewport) Resized(width, height, contentW float64) Viewport {
	v.Width = width
	v.Height = height
	return v.clamped(contentW)
}

// Zoomed switches to another zoom level while keeping the content under
// the pointer at the same place on screen. The anchor is in screen pixels
// relative to the roll origin.
func (v Viewport) Zoomed(level int, anchorX, anchorY, contentW float64) Viewport {
	level = min(max(level, 0), len(zoomFactors)-1)
	if level == v.Zoom {
		return v
	}
	old := v.ZoomFactor()
	ax := v.ScrollX + anchorX/old
	ay := v.ScrollY + anchorY/old
	v.Zoom = level
	f := v.ZoomFactor()
	v.ScrollX = ax - anchorX/f
	v.ScrollY = ay - anchorY/f
	return v.clamped(contentW)
}

// MaxZoomLevel is the largest accepted Zoom value.
func MaxZoomLevel() int { return len(zoomFactors) - 1 }

// EnsureVisible scrolls horizontally just enough to bring the content
// position x into view, keeping some margin from the edges.
func (v Viewport) EnsureVisible(x, contentW float64) Viewport {
	margin := math.Min(rulla.PixelsPerBeat, v.VisibleWidth()/4)
	if x < v.ScrollX+margin {
		v.ScrollX = x - margin
	} else if x > v.ScrollX+v.VisibleWidth()-margin {
		v.ScrollX = x - v.VisibleWidth() + margin
	}
	return v.clamped(contentW)
}

// CenteredOn puts the content position x in the middle of the view.
func (v Viewport) CenteredOn(x, contentW float64) Viewport {
	v.ScrollX = x - v.VisibleWidth()/2
	return v.clamped(contentW)
}

// ScreenToContent maps a point in widget pixels to content units.
func (v Viewport) ScreenToContent(sx, sy float64) (float64, float64) {
	f := v.ZoomFactor()
	return v.ScrollX + sx/f, v.ScrollY + sy/f
}

// ContentToScreen maps a point in content units to widget pixels.
func (v Viewport) ContentToScreen(cx, cy float64) (float64, float64) {
	f := v.ZoomFactor()
	return (cx - v.ScrollX) * f, (cy - v.ScrollY) * f
}
