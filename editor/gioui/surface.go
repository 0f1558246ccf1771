package gioui

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

type Surface struct {
	Color   color.NRGBA
	Inset   layout.Inset
	FitSize bool
}

func (s Surface) Layout(gtx C, widget layout.Widget) D {
	bg := func(gtx C) D {
		paint.FillShape(gtx.Ops, s.Color, clip.Rect{
			Max: gtx.Constraints.Min,
		}.Op())
		return D{Size: gtx.Constraints.Min}
	}
	fg := func(gtx C) D {
		return s.Inset.Layout(gtx, widget)
	}
	if s.FitSize {
		macro := op.Record(gtx.Ops)
		dims := fg(gtx)
		call := macro.Stop()
		gtx.Constraints = layout.Exact(dims.Size)
		bg(gtx)
		call.Add(gtx.Ops)
		return dims
	}
	gtxbg := gtx
	gtxbg.Constraints.Min = gtxbg.Constraints.Max
	bg(gtxbg)
	return fg(gtx)
}
