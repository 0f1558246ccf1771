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

	"github.com/nuottila/rulla/editor"
)

type MenuState struct {
	visible   bool
	tags      []bool
	hover     int
	list      layout.List
	scrollBar ScrollBar
}

type MenuStyle struct {
	Text     LabelStyle
	Shortcut LabelStyle
	Disabled color.NRGBA
	Hover    color.NRGBA
	IconSize unit.Dp
	Width    unit.Dp
}

type ActionMenuItem struct {
	Action    editor.Action
	Text      string
	Shortcut  string
	IconBytes []byte
}

func MenuItem(act editor.Action, text, shortcut string, iconBytes []byte) ActionMenuItem {
	return ActionMenuItem{Action: act, Text: text, Shortcut: shortcut, IconBytes: iconBytes}
}

type MenuButtonWidget struct {
	Theme *Theme
	State *MenuState
	Click *Clickable
	Title string
}

func MenuBtn(th *Theme, state *MenuState, c *Clickable, title string) MenuButtonWidget {
	return MenuButtonWidget{Theme: th, State: state, Click: c, Title: title}
}

func (m MenuButtonWidget) Layout(gtx C, items ...ActionMenuItem) D {
	for m.Click.Clicked(gtx) {
		m.State.visible = true
	}
	defer op.Offset(image.Point{}).Push(gtx.Ops).Pop()
	titleBtn := Btn(m.Theme, &m.Theme.Button.Text, m.Click, m.Title, "")
	dims := titleBtn.Layout(gtx)
	op.Offset(image.Pt(0, dims.Size.Y)).Add(gtx.Ops)
	gtx.Constraints.Max.X = gtx.Dp(m.Theme.Menu.Width)
	gtx.Constraints.Max.Y = gtx.Dp(unit.Dp(1000))
	m.layoutMenu(gtx, items...)
	return dims
}

func (m MenuButtonWidget) layoutMenu(gtx C, items ...ActionMenuItem) D {
	st := m.State
	style := &m.Theme.Menu
	contents := func(gtx C) D {
		for i := range items {
			// make sure we have a tag for every item
			for len(st.tags) <= i {
				st.tags = append(st.tags, false)
			}
			for {
				ev, ok := gtx.Event(pointer.Filter{
					Target: &st.tags[i],
					Kinds:  pointer.Press | pointer.Enter | pointer.Leave,
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
					items[i].Action.Do()
					st.visible = false
				case pointer.Enter:
					st.hover = i + 1
				case pointer.Leave:
					if st.hover == i+1 {
						st.hover = 0
					}
				}
			}
		}
		st.list.Axis = layout.Vertical
		st.scrollBar.Axis = layout.Vertical
		return layout.Stack{Alignment: layout.SE}.Layout(gtx,
			layout.Expanded(func(gtx C) D {
				return st.list.Layout(gtx, len(items), func(gtx C, i int) D {
					defer op.Offset(image.Point{}).Push(gtx.Ops).Pop()
					var macro op.MacroOp
					item := &items[i]
					disabled := !item.Action.Enabled()
					if i == st.hover-1 && !disabled {
						macro = op.Record(gtx.Ops)
					}
					iconColor := style.Text.Color
					textLabel := Label(m.Theme, &style.Text, item.Text)
					if disabled {
						iconColor = style.Disabled
						textLabel.Color = style.Disabled
					}
					iconInset := layout.Inset{Left: unit.Dp(12), Right: unit.Dp(6)}
					shortcutLabel := Label(m.Theme, &style.Shortcut, item.Shortcut)
					shortcutInset := layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Bottom: unit.Dp(2), Top: unit.Dp(2)}
					dims := layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(func(gtx C) D {
							return iconInset.Layout(gtx, func(gtx C) D {
								p := gtx.Dp(style.IconSize)
								gtx.Constraints.Min = image.Pt(p, p)
								return m.Theme.Icon(item.IconBytes).Layout(gtx, iconColor)
							})
						}),
						layout.Rigid(textLabel.Layout),
						layout.Flexed(1, func(gtx C) D { return D{Size: image.Pt(gtx.Constraints.Max.X, 1)} }),
						layout.Rigid(func(gtx C) D {
							return shortcutInset.Layout(gtx, shortcutLabel.Layout)
						}),
					)
					if i == st.hover-1 && !disabled {
						recording := macro.Stop()
						paint.FillShape(gtx.Ops, style.Hover, clip.Rect{
							Max: image.Pt(dims.Size.X, dims.Size.Y),
						}.Op())
						recording.Add(gtx.Ops)
					}
					if !disabled {
						area := clip.Rect(image.Rect(0, 0, dims.Size.X, dims.Size.Y)).Push(gtx.Ops)
						event.Op(gtx.Ops, &st.tags[i])
						area.Pop()
					}
					return dims
				})
			}),
			layout.Expanded(func(gtx C) D {
				return st.scrollBar.Layout(gtx, &m.Theme.ScrollBar, len(items), &st.list.Position)
			}),
		)
	}
	return Popup(m.Theme, &st.visible).Layout(gtx, contents)
}
