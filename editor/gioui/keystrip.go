package gioui

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

// KeyStrip is the piano drawn along the left edge of the roll. It scrolls
// and zooms with the roll viewport, lights up the keys of all sounding
// notes and plays notes when pressed with the mouse, sliding from key to
// key while dragging.
type KeyStrip struct {
	jam     Keyboard[pointer.ID]
	pressed [rulla.NumPitches]int

	down      bool
	downPitch int
}

type KeyStripStyle struct {
	WhiteKey color.NRGBA
	BlackKey color.NRGBA
	Border   color.NRGBA
	Pressed  color.NRGBA
	Label    LabelStyle
	Width    unit.Dp
}

func NewKeyStrip(broker *editor.Broker) *KeyStrip {
	return &KeyStrip{
		jam:       MakeKeyboard[pointer.ID](broker),
		downPitch: -1,
	}
}

func (k *KeyStrip) Layout(gtx C) D {
	t := EditorFromContext(gtx)
	style := &t.Theme.KeyStrip
	size := image.Pt(gtx.Dp(style.Width), gtx.Constraints.Max.Y)
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	k.noteEvents(t)
	k.update(gtx, t)
	k.draw(gtx, t, style, size)
	event.Op(gtx.Ops, k)
	pointer.CursorPointer.Add(gtx.Ops)
	return D{Size: size}
}

// noteEvents keeps a sounding count per pitch, so a key stays lit while
// any source holds it and goes dark when the last one releases.
func (k *KeyStrip) noteEvents(t *Editor) {
	for _, ev := range t.noteEvents {
		n := int(ev.Note)
		if n >= rulla.NumPitches {
			continue
		}
		if ev.On {
			k.pressed[n]++
		} else if k.pressed[n] > 0 {
			k.pressed[n]--
		}
	}
}

func (k *KeyStrip) update(gtx C, t *Editor) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: k,
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
			gtx.Execute(pointer.GrabCmd{Tag: k, ID: e.PointerID})
			k.press(t, e)
		case pointer.Drag:
			if k.down {
				k.press(t, e)
			}
		case pointer.Release, pointer.Cancel:
			k.jam.Release(e.PointerID)
			k.down = false
			k.downPitch = -1
		}
	}
}

func (k *KeyStrip) press(t *Editor, e pointer.Event) {
	_, cy := t.Viewport().ScreenToContent(0, float64(e.Position.Y))
	pitch := rulla.YPitch(cy)
	if k.down && pitch == k.downPitch {
		return
	}
	// release first so sliding to another key retriggers instead of being
	// ignored as an already held key
	k.jam.Release(e.PointerID)
	k.jam.Press(e.PointerID, editor.NoteEvent{
		Note:     byte(pitch),
		Velocity: byte(t.NoteVelocity().Value()),
	})
	k.down = true
	k.downPitch = pitch
}

func (k *KeyStrip) draw(gtx C, t *Editor, style *KeyStripStyle, size image.Point) {
	vp := t.Viewport()
	zf := vp.ZoomFactor()
	rowH := rulla.RowHeight * zf
	firstRow := int(vp.ScrollY / rulla.RowHeight)
	for row := firstRow; row < rulla.NumPitches; row++ {
		y := (float64(row)*rulla.RowHeight - vp.ScrollY) * zf
		if y >= float64(size.Y) {
			break
		}
		pitch := rulla.RowPitch(row)
		bg := style.WhiteKey
		if rulla.IsBlackKey(pitch) {
			bg = style.BlackKey
		}
		rect := opRect(0, y, float64(size.X), rowH)
		paint.FillShape(gtx.Ops, bg, clip.Rect(rect).Op())
		if k.pressed[pitch] > 0 {
			paint.FillShape(gtx.Ops, style.Pressed, clip.Rect(rect).Op())
		}
		paint.FillShape(gtx.Ops, style.Border, clip.Rect(image.Rect(0, rect.Max.Y-1, size.X, rect.Max.Y)).Op())
		if pitch%12 == 0 && rowH >= 9 {
			k.label(gtx, t, style, rulla.PitchName(pitch), rect)
		}
	}
}

func (k *KeyStrip) label(gtx C, t *Editor, style *KeyStripStyle, txt string, rect image.Rectangle) {
	macro := op.Record(gtx.Ops)
	dims := Label(t.Theme, &style.Label, txt).Layout(gtx)
	call := macro.Stop()
	off := image.Pt(rect.Max.X-dims.Size.X-gtx.Dp(unit.Dp(4)), rect.Min.Y+max((rect.Dy()-dims.Size.Y)/2, 0))
	defer op.Offset(off).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}
