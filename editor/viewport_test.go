package editor_test

import (
	"math"
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

var ts44 = rulla.TimeSignature{Numerator: 4, Denominator: 4}

func TestContentWidth(t *testing.T) {
	// an empty song still gets the minimum roll length
	if got := editor.ContentWidth(nil, ts44); got != 16*ts44.MeasureWidth() {
		t.Errorf("empty ContentWidth = %v, want %v", got, 16*ts44.MeasureWidth())
	}
	long := rulla.NoteList{{ID: "a", Start: 5900, Duration: 100, Pitch: 60}}
	// 6000 units is 18.75 measures; rounded up plus one empty measure
	if got := editor.ContentWidth(long, ts44); got != 20*ts44.MeasureWidth() {
		t.Errorf("ContentWidth = %v, want %v", got, 20*ts44.MeasureWidth())
	}
}

func TestZoomKeepsAnchor(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{ScrollX: 1000, ScrollY: 1000, Width: 400, Height: 300, Zoom: 2}
	ax, ay := 200.0, 150.0
	wantX, wantY := v.ScreenToContent(ax, ay)
	for _, level := range []int{3, 4, 1, 0, 2} {
		v = v.Zoomed(level, ax, ay, cw)
		if v.Zoom != level {
			t.Fatalf("Zoom = %d, want %d", v.Zoom, level)
		}
		gotX, gotY := v.ScreenToContent(ax, ay)
		if math.Abs(gotX-wantX) > 1e-9 || math.Abs(gotY-wantY) > 1e-9 {
			t.Fatalf("content under the anchor moved at level %d: (%v, %v) != (%v, %v)",
				level, gotX, gotY, wantX, wantY)
		}
	}
}

func TestZoomClampsLevel(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{Width: 400, Height: 300, Zoom: 2}
	if got := v.Zoomed(99, 0, 0, cw); got.Zoom != editor.MaxZoomLevel() {
		t.Errorf("Zoomed(99) = %d, want %d", got.Zoom, editor.MaxZoomLevel())
	}
	if got := v.Zoomed(-4, 0, 0, cw); got.Zoom != 0 {
		t.Errorf("Zoomed(-4) = %d, want 0", got.Zoom)
	}
}

func TestScrollClamping(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{Width: 400, Height: 300, Zoom: 2}
	v, changed := v.Scrolled(-50, -50, cw)
	if changed || v.ScrollX != 0 || v.ScrollY != 0 {
		t.Fatalf("scrolling before the origin must clamp and report no change, got %+v", v)
	}
	v, changed = v.Scrolled(100, 50, cw)
	if !changed || v.ScrollX != 100 || v.ScrollY != 50 {
		t.Fatalf("Scrolled = %+v, want (100, 50)", v)
	}
	v, _ = v.WithScroll(1e9, 1e9, cw)
	if v.ScrollX != cw-v.VisibleWidth() || v.ScrollY != editor.ContentHeight-v.VisibleHeight() {
		t.Fatalf("WithScroll past the end = %+v, want clamped to the far corner", v)
	}
}

func TestResizeReclamps(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{Width: 400, Height: 300, Zoom: 2}
	v, _ = v.WithScroll(1e9, 1e9, cw)
	v = v.Resized(800, 600, cw)
	if v.Width != 800 || v.Height != 600 {
		t.Fatalf("Resized size = %vx%v", v.Width, v.Height)
	}
	if v.ScrollX != cw-800 || v.ScrollY != editor.ContentHeight-600 {
		t.Fatalf("Resized must re-clamp the scroll, got %+v", v)
	}
}

func TestEnsureVisible(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{ScrollX: 1000, Width: 400, Height: 300, Zoom: 2}
	margin := rulla.PixelsPerBeat
	if got := v.EnsureVisible(500, cw); got.ScrollX != 500-margin {
		t.Errorf("position left of the view: ScrollX = %v, want %v", got.ScrollX, 500-margin)
	}
	if got := v.EnsureVisible(1200, cw); got.ScrollX != 1000 {
		t.Errorf("position already in view: ScrollX = %v, want unchanged", got.ScrollX)
	}
	if got := v.EnsureVisible(1390, cw); got.ScrollX != 1390-400+margin {
		t.Errorf("position right of the view: ScrollX = %v, want %v", got.ScrollX, 1390-400+margin)
	}
}

func TestCenteredOn(t *testing.T) {
	cw := editor.ContentWidth(nil, ts44)
	v := editor.Viewport{Width: 400, Height: 300, Zoom: 2}
	if got := v.CenteredOn(2000, cw); got.ScrollX != 1800 {
		t.Errorf("CenteredOn(2000): ScrollX = %v, want 1800", got.ScrollX)
	}
	if got := v.CenteredOn(0, cw); got.ScrollX != 0 {
		t.Errorf("CenteredOn(0): ScrollX = %v, want clamped to 0", got.ScrollX)
	}
}

func TestScreenContentRoundTrip(t *testing.T) {
	v := editor.Viewport{ScrollX: 123, ScrollY: 456, Width: 400, Height: 300, Zoom: 3}
	sx, sy := v.ContentToScreen(1000, 2000)
	cx, cy := v.ScreenToContent(sx, sy)
	if math.Abs(cx-1000) > 1e-9 || math.Abs(cy-2000) > 1e-9 {
		t.Fatalf("round trip = (%v, %v), want (1000, 2000)", cx, cy)
	}
}
