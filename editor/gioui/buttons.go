package gioui

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/nuottila/rulla/editor"
)

type (
	// Clickable is a widget.Clickable with the tooltip state bolted on, so
	// that every button in the editor can carry a hint.
	Clickable struct {
		widget.Clickable
		tipArea TipArea
	}

	ButtonStyle struct {
		Color        color.NRGBA
		Background   color.NRGBA
		TextSize     unit.Sp
		CornerRadius unit.Dp
		Inset        layout.Inset
	}

	IconButtonStyle struct {
		Color      color.NRGBA
		Background color.NRGBA
		Size       unit.Dp
		Inset      layout.Inset
	}

	ButtonWidget struct {
		Text  string
		Tip   string
		Theme *Theme
		Style *ButtonStyle
		Click *Clickable
	}

	ActionButtonWidget struct {
		ButtonWidget
		Action editor.Action
	}

	ToggleButtonWidget struct {
		ButtonWidget
		Bool editor.Bool
	}

	IconButtonWidget struct {
		Theme *Theme
		Style *IconButtonStyle
		Click *Clickable
		Icon  []byte
		Tip   string
	}

	ActionIconButtonWidget struct {
		IconButtonWidget
		Action editor.Action
	}

	ToggleIconButtonWidget struct {
		IconButtonWidget
		Bool editor.Bool
	}
)

func Btn(th *Theme, style *ButtonStyle, c *Clickable, text string, tip string) ButtonWidget {
	return ButtonWidget{Text: text, Tip: tip, Theme: th, Style: style, Click: c}
}

func (b ButtonWidget) Layout(gtx C) D {
	if b.Tip != "" {
		return b.Click.tipArea.Layout(gtx, Tooltip(b.Theme, b.Tip), b.layout)
	}
	return b.layout(gtx)
}

func (b ButtonWidget) layout(gtx C) D {
	bs := material.Button(&b.Theme.Material, &b.Click.Clickable, b.Text)
	bs.Color = b.Style.Color
	bs.Background = b.Style.Background
	bs.TextSize = b.Style.TextSize
	bs.CornerRadius = b.Style.CornerRadius
	bs.Inset = b.Style.Inset
	return bs.Layout(gtx)
}

func ActionBtn(act editor.Action, th *Theme, c *Clickable, text string, tip string) ActionButtonWidget {
	ret := ActionButtonWidget{Action: act, ButtonWidget: Btn(th, &th.Button.Text, c, text, tip)}
	if !act.Enabled() {
		ret.Style = &th.Button.Disabled
	}
	return ret
}

func (b ActionButtonWidget) Layout(gtx C) D {
	for b.Click.Clicked(gtx) {
		b.Action.Do()
	}
	if !b.Action.Enabled() {
		gtx = gtx.Disabled()
	}
	return b.ButtonWidget.Layout(gtx)
}

func ToggleBtn(v editor.Bool, th *Theme, c *Clickable, text string, tip string) ToggleButtonWidget {
	ret := ToggleButtonWidget{Bool: v, ButtonWidget: Btn(th, &th.Button.Text, c, text, tip)}
	if !v.Enabled() {
		ret.Style = &th.Button.Disabled
	} else if v.Value() {
		ret.Style = &th.Button.Filled
	}
	return ret
}

func (t ToggleButtonWidget) Layout(gtx C) D {
	for t.Click.Clicked(gtx) {
		t.Bool.Toggle()
	}
	if !t.Bool.Enabled() {
		gtx = gtx.Disabled()
	}
	return t.ButtonWidget.Layout(gtx)
}

func IconBtn(th *Theme, style *IconButtonStyle, c *Clickable, icon []byte, tip string) IconButtonWidget {
	return IconButtonWidget{Theme: th, Style: style, Click: c, Icon: icon, Tip: tip}
}

func (b IconButtonWidget) Layout(gtx C) D {
	if b.Tip != "" {
		return b.Click.tipArea.Layout(gtx, Tooltip(b.Theme, b.Tip), b.layout)
	}
	return b.layout(gtx)
}

func (b IconButtonWidget) layout(gtx C) D {
	bs := material.IconButton(&b.Theme.Material, &b.Click.Clickable, b.Theme.Icon(b.Icon), b.Tip)
	bs.Color = b.Style.Color
	bs.Background = b.Style.Background
	bs.Size = b.Style.Size
	bs.Inset = b.Style.Inset
	return bs.Layout(gtx)
}

func ActionIconBtn(act editor.Action, th *Theme, c *Clickable, icon []byte, tip string) ActionIconButtonWidget {
	style := &th.IconButton.Enabled
	if !act.Enabled() {
		style = &th.IconButton.Disabled
	}
	return ActionIconButtonWidget{Action: act, IconButtonWidget: IconBtn(th, style, c, icon, tip)}
}

func (b ActionIconButtonWidget) Layout(gtx C) D {
	for b.Click.Clicked(gtx) {
		b.Action.Do()
	}
	if !b.Action.Enabled() {
		gtx = gtx.Disabled()
	}
	return b.IconButtonWidget.Layout(gtx)
}

func ToggleIconBtn(v editor.Bool, th *Theme, c *Clickable, iconOff, iconOn []byte, tipOff, tipOn string) ToggleIconButtonWidget {
	icon, tip := iconOff, tipOff
	if v.Value() {
		icon, tip = iconOn, tipOn
	}
	style := &th.IconButton.Enabled
	if !v.Enabled() {
		style = &th.IconButton.Disabled
	}
	return ToggleIconButtonWidget{Bool: v, IconButtonWidget: IconBtn(th, style, c, icon, tip)}
}

func (t ToggleIconButtonWidget) Layout(gtx C) D {
	for t.Click.Clicked(gtx) {
		t.Bool.Toggle()
	}
	if !t.Bool.Enabled() {
		gtx = gtx.Disabled()
	}
	return t.IconButtonWidget.Layout(gtx)
}
