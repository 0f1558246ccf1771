package gioui

import (
	"image"
	"image/color"
	"strconv"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/nuottila/rulla"
)

// Ruler is the timeline above the roll: measure numbers, beat ticks and
// the playhead. Clicking or dragging on it seeks, without snapping, so a
// loop can start exactly where the ear says.
type Ruler struct {
	dragging bool
}

type RulerStyle struct {
	Bg       color.NRGBA
	Number   LabelStyle
	Beat     color.NRGBA
	Measure  color.NRGBA
	Playhead color.NRGBA
	Height   unit.Dp
}

func (r *Ruler) Layout(gtx C) D {
	t := EditorFromContext(gtx)
	style := &t.Theme.Ruler
	size := gtx.Constraints.Max
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, style.Bg, clip.Rect(image.Rectangle{Max: size}).Op())
	r.update(gtx, t)
	vp := t.Viewport()
	zf := vp.ZoomFactor()
	ts := t.RollFrame().TimeSignature.Clamped()
	mw := ts.MeasureWidth()
	h := float64(size.Y)
	for beat := int(vp.ScrollX / rulla.PixelsPerBeat); ; beat++ {
		x := (float64(beat)*rulla.PixelsPerBeat - vp.ScrollX) * zf
		if x >= float64(size.X) {
			break
		}
		paint.FillShape(gtx.Ops, style.Beat, clip.Rect(opRect(x, h*2/3, 1, h/3)).Op())
	}
	for measure := int(vp.ScrollX / mw); ; measure++ {
		x := (float64(measure)*mw - vp.ScrollX) * zf
		if x >= float64(size.X) {
			break
		}
		paint.FillShape(gtx.Ops, style.Measure, clip.Rect(opRect(x, 0, 1, h)).Op())
		r.number(gtx, t, style, measure+1, int(x))
	}
	px := (t.PlayPosition() - vp.ScrollX) * zf
	if px >= 0 && px < float64(size.X) {
		paint.FillShape(gtx.Ops, style.Playhead, clip.Rect(opRect(px, 0, 2, h)).Op())
		paint.FillShape(gtx.Ops, style.Playhead, clip.Rect(opRect(px-3, 0, 7, 5)).Op())
	}
	event.Op(gtx.Ops, r)
	pointer.CursorPointer.Add(gtx.Ops)
	return D{Size: size}
}

func (r *Ruler) update(gtx C, t *Editor) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: r,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Press:
			if e.Buttons != pointer.ButtonPrimary {
				break
			}
			gtx.Execute(pointer.GrabCmd{Tag: r, ID: e.PointerID})
			r.dragging = true
			r.seek(t, e)
		case pointer.Drag:
			if r.dragging {
				r.seek(t, e)
			}
		case pointer.Release, pointer.Cancel:
			r.dragging = false
		}
	}
}

func (r *Ruler) seek(t *Editor, e pointer.Event) {
	cx, _ := t.Viewport().ScreenToContent(float64(e.Position.X), 0)
	t.Play().Seek(cx)
}

func (r *Ruler) number(gtx C, t *Editor, style *RulerStyle, n int, x int) {
	macro := op.Record(gtx.Ops)
	dims := Label(t.Theme, &style.Number, strconv.Itoa(n)).Layout(gtx)
	call := macro.Stop()
	defer op.Offset(image.Pt(x+3, max((gtx.Constraints.Max.Y-dims.Size.Y)/2, 0))).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}
