package gioui

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type PopupStyle struct {
	Bg     color.NRGBA
	Shadow color.NRGBA
}

type PopupWidget struct {
	Visible *bool
	style   *PopupStyle
}

const (
	popupShadow = unit.Dp(2)
	popupCorner = unit.Dp(6)
)

// Popup draws contents in a deferred overlay with a shadowed surface behind
// it. A press anywhere outside the surface sets *visible to false.
func Popup(th *Theme, visible *bool) PopupWidget {
	return PopupWidget{Visible: visible, style: &th.Popup}
}

func (p PopupWidget) Layout(gtx C, contents layout.Widget) D {
	if !*p.Visible {
		return D{}
	}

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: p.Visible,
			Kinds:  pointer.Press,
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
			*p.Visible = false
		}
	}

	bg := func(gtx C) D {
		rrect := clip.RRect{
			Rect: image.Rectangle{Max: gtx.Constraints.Min},
			SE:   gtx.Dp(popupCorner),
			SW:   gtx.Dp(popupCorner),
			NW:   gtx.Dp(popupCorner),
			NE:   gtx.Dp(popupCorner),
		}
		shadow := rrect
		shadow.Rect.Min = shadow.Rect.Min.Sub(image.Pt(gtx.Dp(popupShadow), gtx.Dp(popupShadow)))
		shadow.Rect.Max = shadow.Rect.Max.Add(image.Pt(gtx.Dp(popupShadow), gtx.Dp(popupShadow)))
		paint.FillShape(gtx.Ops, p.style.Shadow, shadow.Op(gtx.Ops))
		paint.FillShape(gtx.Ops, p.style.Bg, rrect.Op(gtx.Ops))
		// the whole window dismisses the popup, except the popup itself
		area := clip.Rect(image.Rect(-1e6, -1e6, 1e6, 1e6)).Push(gtx.Ops)
		event.Op(gtx.Ops, p.Visible)
		area.Pop()
		area = clip.Rect(shadow.Rect).Push(gtx.Ops)
		event.Op(gtx.Ops, &dummyTag)
		area.Pop()
		return D{Size: gtx.Constraints.Min}
	}
	macro := op.Record(gtx.Ops)
	dims := layout.Stack{}.Layout(gtx,
		layout.Expanded(bg),
		layout.Stacked(contents),
	)
	callop := macro.Stop()
	op.Defer(gtx.Ops, callop)
	return dims
}

var dummyTag bool
