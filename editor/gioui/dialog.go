package gioui

import (
	"image/color"

	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/nuottila/rulla/editor"
)

type DialogState struct {
	clickables []Clickable
}

type DialogStyles struct {
	Bg    color.NRGBA
	Title LabelStyle
	Text  LabelStyle
}

type DialogButton struct {
	Text   string
	Action editor.Action
}

type DialogWidget struct {
	State   *DialogState
	Theme   *Theme
	Title   string
	Text    string
	Buttons []DialogButton
}

func NewDialogState() *DialogState {
	return &DialogState{}
}

func DialogBtn(text string, act editor.Action) DialogButton {
	return DialogButton{Text: text, Action: act}
}

// MakeDialog builds a modal confirmation dialog. The last button is treated
// as the safe choice: it gets the focus by default and esc triggers it.
func MakeDialog(th *Theme, state *DialogState, title, text string, btns ...DialogButton) DialogWidget {
	for len(state.clickables) < len(btns) {
		state.clickables = append(state.clickables, Clickable{})
	}
	return DialogWidget{State: state, Theme: th, Title: title, Text: text, Buttons: btns}
}

func (d *DialogWidget) handleKeysForButton(gtx C, index int) {
	btn := &d.State.clickables[index]
	prev := &d.State.clickables[(index+len(d.Buttons)-1)%len(d.Buttons)]
	next := &d.State.clickables[(index+1)%len(d.Buttons)]
	for {
		e, ok := gtx.Event(
			key.Filter{Focus: &btn.Clickable, Name: key.NameLeftArrow},
			key.Filter{Focus: &btn.Clickable, Name: key.NameRightArrow},
			key.Filter{Focus: &btn.Clickable, Name: key.NameEscape},
			key.Filter{Focus: &btn.Clickable, Name: key.NameTab, Optional: key.ModShift},
		)
		if !ok {
			break
		}
		if e, ok := e.(key.Event); ok && e.State == key.Press {
			switch {
			case e.Name == key.NameLeftArrow || (e.Name == key.NameTab && e.Modifiers.Contain(key.ModShift)):
				gtx.Execute(key.FocusCmd{Tag: &prev.Clickable})
			case e.Name == key.NameRightArrow || (e.Name == key.NameTab && !e.Modifiers.Contain(key.ModShift)):
				gtx.Execute(key.FocusCmd{Tag: &next.Clickable})
			case e.Name == key.NameEscape:
				d.Buttons[len(d.Buttons)-1].Action.Do()
			}
		}
	}
}

func (d DialogWidget) Layout(gtx C) D {
	anyFocused := false
	for i := range d.Buttons {
		if gtx.Source.Focused(&d.State.clickables[i].Clickable) {
			anyFocused = true
			break
		}
	}
	if !anyFocused {
		gtx.Execute(key.FocusCmd{Tag: &d.State.clickables[len(d.Buttons)-1].Clickable})
	}
	for i := range d.Buttons {
		d.handleKeysForButton(gtx, i)
	}
	style := &d.Theme.Dialog
	paint.Fill(gtx.Ops, style.Bg)
	inset := layout.Inset{Top: unit.Dp(12), Bottom: unit.Dp(12), Left: unit.Dp(20), Right: unit.Dp(20)}
	textInset := layout.Inset{Top: unit.Dp(12), Bottom: unit.Dp(12)}
	visible := true
	return layout.Center.Layout(gtx, func(gtx C) D {
		return Popup(d.Theme, &visible).Layout(gtx, func(gtx C) D {
			return inset.Layout(gtx, func(gtx C) D {
				return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(Label(d.Theme, &style.Title, d.Title).Layout),
					layout.Rigid(func(gtx C) D {
						return textInset.Layout(gtx, Label(d.Theme, &style.Text, d.Text).Layout)
					}),
					layout.Rigid(func(gtx C) D {
						return layout.E.Layout(gtx, func(gtx C) D {
							gtx.Constraints.Min.X = gtx.Dp(unit.Dp(120))
							children := make([]layout.FlexChild, len(d.Buttons))
							for i, btn := range d.Buttons {
								widget := ActionBtn(btn.Action, d.Theme, &d.State.clickables[i], btn.Text, "")
								children[i] = layout.Rigid(widget.Layout)
							}
							return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx, children...)
						})
					}),
				)
			})
		})
	})
}
