package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/nuottila/rulla/editor"
)

type NumericUpDownState struct {
	dragStartValue int
	dragStartXY    float32
	clickDecrease  gesture.Click
	clickIncrease  gesture.Click
	tipArea        TipArea
}

type NumericUpDownStyle struct {
	TextColor    color.NRGBA
	IconColor    color.NRGBA
	BgColor      color.NRGBA
	CornerRadius unit.Dp
	ButtonWidth  unit.Dp
	UnitsPerStep unit.Dp
	TextSize     unit.Sp
	Width        unit.Dp
	Height       unit.Dp
}

type NumericUpDownWidget struct {
	Int   editor.Int
	State *NumericUpDownState
	Style *NumericUpDownStyle
	Tip   string
	th    *Theme
}

func NewNumericUpDownState() *NumericUpDownState {
	return &NumericUpDownState{}
}

func NumUpDown(v editor.Int, th *Theme, state *NumericUpDownState, tooltip string) NumericUpDownWidget {
	return NumericUpDownWidget{Int: v, State: state, Style: &th.NumericUpDown, Tip: tooltip, th: th}
}

func (n NumericUpDownWidget) Update(gtx C) {
	// dragging along the down-right diagonal adjusts the value, so both a
	// horizontal and a vertical drag work
	pxPerStep := float32(gtx.Dp(n.Style.UnitsPerStep))
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: n.State,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release,
		})
		if !ok {
			break
		}
		if e, ok := ev.(pointer.Event); ok {
			switch e.Kind {
			case pointer.Press:
				n.State.dragStartValue = n.Int.Value()
				n.State.dragStartXY = e.Position.X - e.Position.Y
			case pointer.Drag:
				deltaCoord := e.Position.X - e.Position.Y - n.State.dragStartXY
				n.Int.SetValue(n.State.dragStartValue + int(deltaCoord/pxPerStep+0.5))
			}
		}
	}
	for ev, ok := n.State.clickDecrease.Update(gtx.Source); ok; ev, ok = n.State.clickDecrease.Update(gtx.Source) {
		if ev.Kind == gesture.KindClick {
			n.Int.Add(-1)
		}
	}
	for ev, ok := n.State.clickIncrease.Update(gtx.Source); ok; ev, ok = n.State.clickIncrease.Update(gtx.Source) {
		if ev.Kind == gesture.KindClick {
			n.Int.Add(1)
		}
	}
}

func (n NumericUpDownWidget) Layout(gtx C) D {
	if n.Tip != "" {
		return n.State.tipArea.Layout(gtx, Tooltip(n.th, n.Tip), n.actualLayout)
	}
	return n.actualLayout(gtx)
}

func (n NumericUpDownWidget) actualLayout(gtx C) D {
	n.Update(gtx)
	gtx.Constraints = layout.Exact(image.Pt(gtx.Dp(n.Style.Width), gtx.Dp(n.Style.Height)))
	width := gtx.Dp(n.Style.ButtonWidth)
	height := gtx.Dp(n.Style.Height)
	return layout.Background{}.Layout(gtx,
		func(gtx C) D {
			defer clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(n.Style.CornerRadius)).Push(gtx.Ops).Pop()
			paint.Fill(gtx.Ops, n.Style.BgColor)
			event.Op(gtx.Ops, n.State) // register drag inputs, if not hitting the clicks
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					gtx.Constraints = layout.Exact(image.Pt(width, height))
					return layout.Background{}.Layout(gtx,
						func(gtx C) D {
							defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Min}).Push(gtx.Ops).Pop()
							n.State.clickDecrease.Add(gtx.Ops)
							return D{Size: gtx.Constraints.Min}
						},
						func(gtx C) D { return n.th.Icon(icons.ContentRemove).Layout(gtx, n.Style.IconColor) },
					)
				}),
				layout.Flexed(1, func(gtx C) D {
					paint.ColorOp{Color: n.Style.TextColor}.Add(gtx.Ops)
					return widget.Label{Alignment: text.Middle}.Layout(gtx, n.th.Material.Shaper, font.Font{}, n.Style.TextSize, n.Int.String(), op.CallOp{})
				}),
				layout.Rigid(func(gtx C) D {
					gtx.Constraints = layout.Exact(image.Pt(width, height))
					return layout.Background{}.Layout(gtx,
						func(gtx C) D {
							defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Min}).Push(gtx.Ops).Pop()
							n.State.clickIncrease.Add(gtx.Ops)
							return D{Size: gtx.Constraints.Min}
						},
						func(gtx C) D { return n.th.Icon(icons.ContentAdd).Layout(gtx, n.Style.IconColor) },
					)
				}),
			)
		},
	)
}
