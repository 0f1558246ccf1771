package gioui

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

// Roll is the note editing area: a toolbar, the timeline ruler, the piano
// key strip and the canvas the notes are drawn on. The model renders a
// frame into flat draw ops and the canvas rasterizes them; all the gesture
// logic lives in the model, this widget only translates pointer events
// into content coordinates.
type Roll struct {
	SelectModeBtn *Clickable
	DrawModeBtn   *Clickable
	EraseModeBtn  *Clickable

	AddSemitoneBtn      *Clickable
	SubtractSemitoneBtn *Clickable
	AddOctaveBtn        *Clickable
	SubtractOctaveBtn   *Clickable
	DeleteBtn           *Clickable

	SnapNumber     *NumericUpDownState
	VelocityNumber *NumericUpDownState
	OctaveNumber   *NumericUpDownState

	KeyStrip *KeyStrip
	Ruler    *Ruler

	lyricField   *TextField
	lyricBuffer  string
	editingID    rulla.NoteID
	lyricFocused bool

	hBar rollBar
	vBar rollBar

	lastPressAt  time.Duration
	lastPressPos f32.Point

	caser cases.Caser

	selectModeTip, drawModeTip, eraseModeTip string
	addSemitoneTip, subtractSemitoneTip      string
	addOctaveTip, subtractOctaveTip          string
	deleteTip                                string
}

type RollStyle struct {
	Background      color.NRGBA
	BlackKeyRow     color.NRGBA
	MeasureLine     color.NRGBA
	BeatLine        color.NRGBA
	SubdivisionLine color.NRGBA
	NoteFill        color.NRGBA
	NoteSelected    color.NRGBA
	NoteBorder      color.NRGBA
	VelocityBand    color.NRGBA
	LyricText       color.NRGBA
	LyricTextSize   unit.Sp
	Playhead        color.NRGBA
	Toolbar         color.NRGBA
}

func (s *RollStyle) color(role editor.ColorRole) color.NRGBA {
	switch role {
	case editor.RoleBlackKeyRow:
		return s.BlackKeyRow
	case editor.RoleMeasureLine:
		return s.MeasureLine
	case editor.RoleBeatLine:
		return s.BeatLine
	case editor.RoleSubdivisionLine:
		return s.SubdivisionLine
	case editor.RoleNoteFill:
		return s.NoteFill
	case editor.RoleNoteSelected:
		return s.NoteSelected
	case editor.RoleNoteBorder:
		return s.NoteBorder
	case editor.RoleVelocityBand:
		return s.VelocityBand
	case editor.RoleLyricText:
		return s.LyricText
	case editor.RolePlayhead:
		return s.Playhead
	}
	return s.Background
}

const (
	doubleClickDuration    = 400 * time.Millisecond
	doubleClickMaxDistance = 8
)

func NewRoll(model *editor.Model) *Roll {
	ret := &Roll{
		SelectModeBtn: &Clickable{},
		DrawModeBtn:   &Clickable{},
		EraseModeBtn:  &Clickable{},

		AddSemitoneBtn:      &Clickable{},
		SubtractSemitoneBtn: &Clickable{},
		AddOctaveBtn:        &Clickable{},
		SubtractOctaveBtn:   &Clickable{},
		DeleteBtn:           &Clickable{},

		SnapNumber:     NewNumericUpDownState(),
		VelocityNumber: NewNumericUpDownState(),
		OctaveNumber:   NewNumericUpDownState(),

		KeyStrip: NewKeyStrip(model.Broker()),
		Ruler:    &Ruler{},

		lyricField: NewTextField(true, true, text.Start),

		vBar: rollBar{axis: layout.Vertical},
		hBar: rollBar{axis: layout.Horizontal},
	}
	ret.caser = cases.Title(language.English)
	ret.selectModeTip = makeHint("Select notes", " (%s)", "SelectMode")
	ret.drawModeTip = makeHint("Draw notes", " (%s)", "DrawMode")
	ret.eraseModeTip = makeHint("Erase notes", " (%s)", "EraseMode")
	ret.addSemitoneTip = makeHint("Transpose selection up a semitone", " (%s)", "AddSemitone")
	ret.subtractSemitoneTip = makeHint("Transpose selection down a semitone", " (%s)", "SubtractSemitone")
	ret.addOctaveTip = makeHint("Transpose selection up an octave", " (%s)", "AddOctave")
	ret.subtractOctaveTip = makeHint("Transpose selection down an octave", " (%s)", "SubtractOctave")
	ret.deleteTip = makeHint("Delete selected notes", " (%s)", "DeleteSelected")
	return ret
}

func (r *Roll) Layout(gtx C) D {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(r.layoutToolbar),
		layout.Rigid(r.layoutRulerRow),
		layout.Flexed(1, r.layoutCanvasRow),
	)
}

func (r *Roll) layoutToolbar(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	return Surface{Color: th.Roll.Toolbar, FitSize: true}.Layout(gtx, func(gtx C) D {
		selectBtn := ToggleBtn(t.SelectMode(), th, r.SelectModeBtn, r.caser.String(editor.ModeSelect.String()), r.selectModeTip)
		drawBtn := ToggleBtn(t.DrawMode(), th, r.DrawModeBtn, r.caser.String(editor.ModeDraw.String()), r.drawModeTip)
		eraseBtn := ToggleBtn(t.EraseMode(), th, r.EraseModeBtn, r.caser.String(editor.ModeErase.String()), r.eraseModeTip)
		addSemitoneBtn := ActionBtn(t.Notes().TransposeUp(), th, r.AddSemitoneBtn, "+1", r.addSemitoneTip)
		subtractSemitoneBtn := ActionBtn(t.Notes().TransposeDown(), th, r.SubtractSemitoneBtn, "-1", r.subtractSemitoneTip)
		addOctaveBtn := ActionBtn(t.Notes().OctaveUp(), th, r.AddOctaveBtn, "+12", r.addOctaveTip)
		subtractOctaveBtn := ActionBtn(t.Notes().OctaveDown(), th, r.SubtractOctaveBtn, "-12", r.subtractOctaveTip)
		deleteBtn := ActionIconBtn(t.Notes().DeleteSelected(), th, r.DeleteBtn, icons.ActionDelete, r.deleteTip)
		in := layout.UniformInset(unit.Dp(1))
		snapUpDown := func(gtx C) D {
			return in.Layout(gtx, NumUpDown(t.Snap(), th, r.SnapNumber, "Grid snap").Layout)
		}
		velocityUpDown := func(gtx C) D {
			return in.Layout(gtx, NumUpDown(t.NoteVelocity(), th, r.VelocityNumber, "Velocity of drawn notes").Layout)
		}
		octaveUpDown := func(gtx C) D {
			return in.Layout(gtx, NumUpDown(t.Octave(), th, r.OctaveNumber, "Base octave of the note keys").Layout)
		}
		selected := Label(th, &th.SongPanel.RowHeader, fmt.Sprintf("%d/%d selected", t.Notes().Selected(), t.Notes().Count()))
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(selectBtn.Layout),
			layout.Rigid(drawBtn.Layout),
			layout.Rigid(eraseBtn.Layout),
			layout.Rigid(layout.Spacer{Width: 10}.Layout),
			layout.Rigid(addSemitoneBtn.Layout),
			layout.Rigid(subtractSemitoneBtn.Layout),
			layout.Rigid(addOctaveBtn.Layout),
			layout.Rigid(subtractOctaveBtn.Layout),
			layout.Rigid(deleteBtn.Layout),
			layout.Rigid(layout.Spacer{Width: 10}.Layout),
			layout.Rigid(Label(th, &th.SongPanel.RowHeader, "Snap").Layout),
			layout.Rigid(layout.Spacer{Width: 4}.Layout),
			layout.Rigid(snapUpDown),
			layout.Rigid(layout.Spacer{Width: 6}.Layout),
			layout.Rigid(Label(th, &th.SongPanel.RowHeader, "Velocity").Layout),
			layout.Rigid(layout.Spacer{Width: 4}.Layout),
			layout.Rigid(velocityUpDown),
			layout.Rigid(layout.Spacer{Width: 6}.Layout),
			layout.Rigid(Label(th, &th.SongPanel.RowHeader, "Octave").Layout),
			layout.Rigid(layout.Spacer{Width: 4}.Layout),
			layout.Rigid(octaveUpDown),
			layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
			layout.Rigid(selected.Layout),
			layout.Rigid(layout.Spacer{Width: 6}.Layout),
		)
	})
}

func (r *Roll) layoutRulerRow(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	h := gtx.Dp(th.Ruler.Height)
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			sz := image.Pt(gtx.Dp(th.KeyStrip.Width), h)
			paint.FillShape(gtx.Ops, th.Ruler.Bg, clip.Rect(image.Rectangle{Max: sz}).Op())
			return D{Size: sz}
		}),
		layout.Flexed(1, func(gtx C) D {
			gtx.Constraints = layout.Exact(image.Pt(gtx.Constraints.Max.X, h))
			return r.Ruler.Layout(gtx)
		}),
	)
}

func (r *Roll) layoutCanvasRow(gtx C) D {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(r.KeyStrip.Layout),
		layout.Flexed(1, r.layoutCanvas),
	)
}

func (r *Roll) layoutCanvas(gtx C) D {
	t := EditorFromContext(gtx)
	size := gtx.Constraints.Max
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	t.ResizeViewport(float64(size.X), float64(size.Y))
	r.update(gtx, t)
	r.drawFrame(gtx, t.Theme, t.RollFrame())
	event.Op(gtx.Ops, r)
	r.setCursor(gtx, t)
	r.hBar.layout(gtx, t, size)
	r.vBar.layout(gtx, t, size)
	r.layoutLyricEditor(gtx, t)
	return D{Size: size}
}

// update translates the pointer events on the canvas into gesture events
// in content coordinates. The lyric editor is updated first so a pending
// edit commits through focus loss before a press starts a new gesture.
func (r *Roll) update(gtx C, t *Editor) {
	r.updateLyric(gtx, t)
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  r,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollX: pointer.ScrollRange{Min: -1e6, Max: 1e6},
			ScrollY: pointer.ScrollRange{Min: -1e6, Max: 1e6},
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Scroll:
			if e.Modifiers.Contain(key.ModShortcut) {
				if e.Scroll.Y == 0 {
					break
				}
				delta := 1
				if e.Scroll.Y > 0 {
					delta = -1
				}
				if t.ZoomBy(delta, float64(e.Position.X), float64(e.Position.Y)) {
					t.Alerts().AddNamed("ZoomFactor", fmt.Sprintf("Zoom %s", t.Zoom().String()), editor.Info)
				}
				break
			}
			dx, dy := float64(e.Scroll.X), float64(e.Scroll.Y)
			if e.Modifiers.Contain(key.ModShift) && dx == 0 {
				dx, dy = dy, 0
			}
			t.ScrollBy(dx, dy)
		case pointer.Press:
			if e.Buttons != pointer.ButtonPrimary {
				break
			}
			gtx.Execute(key.FocusCmd{Tag: r})
			gtx.Execute(pointer.GrabCmd{Tag: r, ID: e.PointerID})
			double := e.Time-r.lastPressAt < doubleClickDuration &&
				manhattan(e.Position, r.lastPressPos) < doubleClickMaxDistance
			r.lastPressAt = e.Time
			r.lastPressPos = e.Position
			cx, cy := t.Viewport().ScreenToContent(float64(e.Position.X), float64(e.Position.Y))
			t.Interact(editor.PointerDown{
				X:      cx,
				Y:      cy,
				Multi:  e.Modifiers.Contain(key.ModShift),
				Double: double,
			})
		case pointer.Drag:
			cx, cy := t.Viewport().ScreenToContent(float64(e.Position.X), float64(e.Position.Y))
			t.Interact(editor.PointerMove{X: cx, Y: cy})
		case pointer.Release:
			cx, cy := t.Viewport().ScreenToContent(float64(e.Position.X), float64(e.Position.Y))
			t.Interact(editor.PointerUp{X: cx, Y: cy})
		case pointer.Cancel:
			t.Interact(editor.Cancel{})
		}
	}
}

func manhattan(a, b f32.Point) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (r *Roll) updateLyric(gtx C, t *Editor) {
	le, editing := t.Session().(editor.EditingLyric)
	if !editing {
		r.editingID = ""
		r.lyricFocused = false
		return
	}
	if r.editingID != le.ID {
		r.editingID = le.ID
		r.lyricBuffer = le.Buffer
		r.lyricFocused = false
		r.lyricField.Focus()
	}
	str := editor.MakeStringFromPtr(&r.lyricBuffer)
	switch r.lyricField.Update(gtx, str) {
	case TextFieldEventSubmit:
		t.Interact(editor.CommitLyric{Text: r.lyricBuffer})
		return
	case TextFieldEventCancel:
		t.Interact(editor.DiscardLyric{})
		return
	}
	if r.lyricField.Focused(gtx) {
		r.lyricFocused = true
	} else if r.lyricFocused {
		// clicking anywhere else commits the pending edit
		t.Interact(editor.CommitLyric{Text: r.lyricBuffer})
	}
}

func (r *Roll) layoutLyricEditor(gtx C, t *Editor) {
	le, ok := t.Session().(editor.EditingLyric)
	if !ok {
		return
	}
	n, ok := t.NoteByID(le.ID)
	if !ok {
		return
	}
	vp := t.Viewport()
	x, y := vp.ContentToScreen(n.Start, rulla.RowTop(n.Pitch))
	zf := vp.ZoomFactor()
	w := int(n.Duration*zf + .5)
	h := int(rulla.RowHeight*zf + .5)
	if minW := gtx.Dp(unit.Dp(80)); w < minW {
		w = minW
	}
	if minH := gtx.Dp(unit.Dp(18)); h < minH {
		h = minH
	}
	defer op.Offset(image.Pt(int(x), int(y))).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(image.Pt(w, h))
	paint.FillShape(gtx.Ops, t.Theme.Popup.Bg, clip.Rect(image.Rectangle{Max: image.Pt(w, h)}).Op())
	str := editor.MakeStringFromPtr(&r.lyricBuffer)
	layout.UniformInset(unit.Dp(2)).Layout(gtx, func(gtx C) D {
		return r.lyricField.Layout(gtx, str, t.Theme, &t.Theme.TextField, "lyric")
	})
}

func (r *Roll) setCursor(gtx C, t *Editor) {
	switch t.Session().(type) {
	case editor.Dragging:
		pointer.CursorGrabbing.Add(gtx.Ops)
		return
	case editor.Resizing:
		pointer.CursorColResize.Add(gtx.Ops)
		return
	}
	if t.DrawMode().Value() {
		pointer.CursorCrosshair.Add(gtx.Ops)
	}
}

func (r *Roll) drawFrame(gtx C, th *Theme, frame editor.RollFrame) {
	style := &th.Roll
	for _, o := range frame.Render() {
		switch o := o.(type) {
		case editor.FillRect:
			paint.FillShape(gtx.Ops, style.color(o.Role), clip.Rect(opRect(o.X, o.Y, o.W, o.H)).Op())
		case editor.StrokeRect:
			outline := clip.Stroke{Path: clip.Rect(opRect(o.X, o.Y, o.W, o.H)).Path(), Width: 1}
			paint.FillShape(gtx.Ops, style.color(o.Role), outline.Op())
		case editor.Line:
			drawLine(gtx, style.color(o.Role), o)
		case editor.TextBox:
			drawTextBox(gtx, th, o)
		}
	}
}

func opRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(x+.5), int(y+.5), int(x+w+.5), int(y+h+.5))
}

// drawLine only handles axis aligned lines, which is all the renderer
// emits; anything else is dropped.
func drawLine(gtx C, col color.NRGBA, l editor.Line) {
	x1, y1, x2, y2 := int(l.X1+.5), int(l.Y1+.5), int(l.X2+.5), int(l.Y2+.5)
	var rect image.Rectangle
	switch {
	case x1 == x2:
		rect = image.Rect(x1, min(y1, y2), x1+1, max(y1, y2))
	case y1 == y2:
		rect = image.Rect(min(x1, x2), y1, max(x1, x2), y1+1)
	default:
		return
	}
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

func drawTextBox(gtx C, th *Theme, o editor.TextBox) {
	style := &th.Roll
	rect := opRect(o.X, o.Y, o.W, o.H)
	defer clip.Rect(rect).Push(gtx.Ops).Pop()
	gtx.Constraints.Min = image.Point{}
	gtx.Constraints.Max = rect.Size()
	macro := op.Record(gtx.Ops)
	paint.ColorOp{Color: style.color(o.Role)}.Add(gtx.Ops)
	dims := widget.Label{MaxLines: 1}.Layout(gtx, th.Material.Shaper, font.Font{}, style.LyricTextSize, o.S, op.CallOp{})
	call := macro.Stop()
	off := image.Pt(rect.Min.X+max((rect.Dx()-dims.Size.X)/2, 0), rect.Min.Y+max((rect.Dy()-dims.Size.Y)/2, 0))
	defer op.Offset(off).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}

// rollBar is the overlay scroll bar of the canvas, mapping the viewport
// onto one axis of the content proportionally.
type rollBar struct {
	axis        layout.Axis
	dragging    bool
	dragStart   float32
	startScroll float64
}

func (b *rollBar) layout(gtx C, t *Editor, size image.Point) {
	vp := t.Viewport()
	style := &t.Theme.ScrollBar
	var length, visible, scroll, content float64
	if b.axis == layout.Horizontal {
		length = float64(size.X)
		visible = vp.VisibleWidth()
		scroll = vp.ScrollX
		content = t.ContentWidth()
	} else {
		length = float64(size.Y)
		visible = vp.VisibleHeight()
		scroll = vp.ScrollY
		content = editor.ContentHeight
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: b,
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
			b.dragging = true
			b.dragStart = b.pos(e)
			b.startScroll = scroll
			gtx.Execute(pointer.GrabCmd{Tag: b, ID: e.PointerID})
		case pointer.Drag:
			if !b.dragging {
				break
			}
			target := b.startScroll + float64(b.pos(e)-b.dragStart)/length*content
			if b.axis == layout.Horizontal {
				t.SetScroll(target, vp.ScrollY)
			} else {
				t.SetScroll(vp.ScrollX, target)
			}
		case pointer.Release, pointer.Cancel:
			b.dragging = false
		}
	}
	if content <= 0 || visible >= content {
		return
	}
	thickness := gtx.Dp(style.Width)
	var rect image.Rectangle
	if b.axis == layout.Horizontal {
		x0 := int(scroll / content * length)
		x1 := int((scroll + visible) / content * length)
		rect = image.Rect(x0, size.Y-thickness, x1, size.Y)
	} else {
		y0 := int(scroll / content * length)
		y1 := int((scroll + visible) / content * length)
		rect = image.Rect(size.X-thickness, y0, size.X, y1)
	}
	paint.FillShape(gtx.Ops, style.Color, clip.UniformRRect(rect, thickness/2).Op(gtx.Ops))
	area := clip.Rect(rect).Push(gtx.Ops)
	event.Op(gtx.Ops, b)
	area.Pop()
}

func (b *rollBar) pos(e pointer.Event) float32 {
	if b.axis == layout.Horizontal {
		return e.Position.X
	}
	return e.Position.Y
}
