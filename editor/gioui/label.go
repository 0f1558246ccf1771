package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

type LabelStyle struct {
	Color      color.NRGBA
	ShadeColor color.NRGBA
	TextSize   unit.Sp
}

type LabelWidget struct {
	Text  string
	Color color.NRGBA
	style *LabelStyle
	th    *Theme
}

func Label(th *Theme, style *LabelStyle, txt string) LabelWidget {
	return LabelWidget{Text: txt, Color: style.Color, style: style, th: th}
}

func (l LabelWidget) Layout(gtx C) D {
	gtx.Constraints.Min = image.Point{}
	if l.style.ShadeColor.A > 0 {
		paint.ColorOp{Color: l.style.ShadeColor}.Add(gtx.Ops)
		offs := op.Offset(image.Pt(2, 2)).Push(gtx.Ops)
		widget.Label{
			Alignment: text.Start,
			MaxLines:  1,
		}.Layout(gtx, l.th.Material.Shaper, font.Font{}, l.style.TextSize, l.Text, op.CallOp{})
		offs.Pop()
	}
	paint.ColorOp{Color: l.Color}.Add(gtx.Ops)
	return widget.Label{
		Alignment: text.Start,
		MaxLines:  1,
	}.Layout(gtx, l.th.Material.Shaper, font.Font{}, l.style.TextSize, l.Text, op.CallOp{})
}
