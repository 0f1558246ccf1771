package gioui

import (
	"image"
	"image/color"

	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/nuottila/rulla/editor"
)

type VuMeterStyle struct {
	Bar   color.NRGBA
	Peak  color.NRGBA
	Clip  color.NRGBA
	Range float32
}

type VuMeter struct {
	Volume editor.Volume
	th     *Theme
}

func VuMeterWidget(vol editor.Volume, th *Theme) VuMeter {
	return VuMeter{Volume: vol, th: th}
}

func (v VuMeter) Layout(gtx C) D {
	style := &v.th.VuMeter
	defer op.Offset(image.Point{}).Push(gtx.Ops).Pop()
	gtx.Constraints.Max.Y = gtx.Dp(unit.Dp(12))
	height := gtx.Dp(unit.Dp(6))
	for j := 0; j < 2; j++ {
		value := float32(v.Volume.Average[j]) + style.Range
		if value > 0 {
			x := int(value/style.Range*float32(gtx.Constraints.Max.X) + 0.5)
			if x > gtx.Constraints.Max.X {
				x = gtx.Constraints.Max.X
			}
			paint.FillShape(gtx.Ops, style.Bar, clip.Rect(image.Rect(0, 0, x, height)).Op())
		}
		valueMax := float32(v.Volume.Peak[j]) + style.Range
		if valueMax > 0 {
			color := style.Peak
			if valueMax >= style.Range {
				color = style.Clip
			}
			x := int(valueMax/style.Range*float32(gtx.Constraints.Max.X) + 0.5)
			if x > gtx.Constraints.Max.X {
				x = gtx.Constraints.Max.X
			}
			paint.FillShape(gtx.Ops, color, clip.Rect(image.Rect(x-1, 0, x, height)).Op())
		}
		op.Offset(image.Point{0, height}).Add(gtx.Ops)
	}
	return D{Size: gtx.Constraints.Max}
}
