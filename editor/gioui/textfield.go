package gioui

import (
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/nuottila/rulla/editor"
)

type (
	// TextField wraps a widget.Editor and adds some additional key event
	// filters, to prevent key presses from flowing through to the rest of the
	// application while editing (particularly: to prevent triggering notes
	// while typing a lyric).
	TextField struct {
		widgetEditor widget.Editor
		filters      []event.Filter
		requestFocus bool
	}

	TextFieldStyle struct {
		Color     color.NRGBA
		HintColor color.NRGBA
		TextSize  unit.Sp
	}

	TextFieldEvent int
)

const (
	TextFieldEventNone TextFieldEvent = iota
	TextFieldEventSubmit
	TextFieldEventCancel
)

func NewTextField(singleLine, submit bool, alignment text.Alignment) *TextField {
	ret := &TextField{widgetEditor: widget.Editor{SingleLine: singleLine, Submit: submit, Alignment: alignment}}
	for c := 'A'; c <= 'Z'; c++ {
		ret.filters = append(ret.filters, key.Filter{Name: key.Name(c), Focus: &ret.widgetEditor, Optional: key.ModAlt | key.ModShift | key.ModShortcut})
	}
	for c := '0'; c <= '9'; c++ {
		ret.filters = append(ret.filters, key.Filter{Name: key.Name(c), Focus: &ret.widgetEditor, Optional: key.ModAlt | key.ModShift | key.ModShortcut})
	}
	ret.filters = append(ret.filters, key.Filter{Name: key.NameSpace, Focus: &ret.widgetEditor, Optional: key.ModAlt | key.ModShift | key.ModShortcut})
	ret.filters = append(ret.filters, key.Filter{Name: key.NameEscape, Focus: &ret.widgetEditor, Optional: key.ModAlt | key.ModShift | key.ModShortcut})
	return ret
}

func (e *TextField) Layout(gtx C, str editor.String, th *Theme, style *TextFieldStyle, hint string) D {
	for e.Update(gtx, str) != TextFieldEventNone {
		// just consume all events if the user did not consume them
	}
	if e.widgetEditor.Text() != str.Value() {
		e.widgetEditor.SetText(str.Value())
	}
	me := material.Editor(&th.Material, &e.widgetEditor, hint)
	me.TextSize = style.TextSize
	me.Color = style.Color
	me.HintColor = style.HintColor
	return me.Layout(gtx)
}

func (e *TextField) Update(gtx C, str editor.String) TextFieldEvent {
	if e.requestFocus {
		e.requestFocus = false
		gtx.Execute(key.FocusCmd{Tag: &e.widgetEditor})
		l := len(e.widgetEditor.Text())
		e.widgetEditor.SetCaret(l, l)
	}
	for {
		ev, ok := e.widgetEditor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.ChangeEvent); ok {
			str.SetValue(e.widgetEditor.Text())
		}
		if _, ok := ev.(widget.SubmitEvent); ok {
			return TextFieldEventSubmit
		}
	}
	for {
		ev, ok := gtx.Event(e.filters...)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press && e.Name == key.NameEscape {
			return TextFieldEventCancel
		}
	}
	return TextFieldEventNone
}

func (e *TextField) Focused(gtx C) bool {
	return gtx.Source.Focused(&e.widgetEditor)
}

func (e *TextField) Focus() {
	e.requestFocus = true
}
