package gioui

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/gesture"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
	"github.com/nuottila/rulla/version"
)

type SongPanel struct {
	FileBtn  *Clickable
	FileMenu MenuState
	EditBtn  *Clickable
	EditMenu MenuState
	MIDIBtn  *Clickable
	MIDIMenu MenuState

	PanicBtn *Clickable
	PlayBar  *PlayBar

	SongSettingsExpander *Expander
	OutputExpander       *Expander

	BPM         *NumericUpDownState
	Numerator   *NumericUpDownState
	Denominator *NumericUpDownState

	TitleField  *TextField
	AuthorField *TextField

	fileMenuItems []ActionMenuItem
	editMenuItems []ActionMenuItem
	midiMenuItems []ActionMenuItem

	panicHint string
}

func NewSongPanel(tr *Editor) *SongPanel {
	ret := &SongPanel{
		FileBtn:  &Clickable{},
		EditBtn:  &Clickable{},
		MIDIBtn:  &Clickable{},
		PanicBtn: &Clickable{},
		PlayBar:  NewPlayBar(),

		SongSettingsExpander: &Expander{Expanded: true},
		OutputExpander:       &Expander{},

		BPM:         NewNumericUpDownState(),
		Numerator:   NewNumericUpDownState(),
		Denominator: NewNumericUpDownState(),

		TitleField:  NewTextField(true, false, text.Start),
		AuthorField: NewTextField(true, false, text.Start),
	}
	ret.fileMenuItems = []ActionMenuItem{
		MenuItem(tr.NewSong(), "New Song", keyActionMap["NewSong"], icons.ContentClear),
		MenuItem(tr.OpenSong(), "Open Song", keyActionMap["OpenSong"], icons.FileFolder),
		MenuItem(tr.SaveSong(), "Save Song", keyActionMap["SaveSong"], icons.ContentSave),
		MenuItem(tr.SaveSongAs(), "Save Song As...", keyActionMap["SaveSongAs"], icons.ContentSave),
		MenuItem(tr.Export(), "Export Wav...", keyActionMap["ExportWav"], icons.ImageAudiotrack),
		MenuItem(tr.ExportSMF(), "Export MIDI...", keyActionMap["ExportSMF"], icons.AVQueueMusic),
		MenuItem(tr.ExportText(), "Export Text...", keyActionMap["ExportText"], icons.EditorInsertDriveFile),
		MenuItem(tr.RequestQuit(), "Quit", keyActionMap["Quit"], icons.ActionExitToApp),
	}
	ret.editMenuItems = []ActionMenuItem{
		MenuItem(tr.Notes().SelectAll(), "Select All", keyActionMap["SelectAll"], icons.ContentSelectAll),
		MenuItem(tr.Notes().Deselect(), "Deselect", keyActionMap["Deselect"], icons.NavigationClose),
		MenuItem(tr.Notes().DeleteSelected(), "Delete Selected", keyActionMap["DeleteSelected"], icons.ActionDelete),
	}
	ret.panicHint = makeHint("Panic", " (%s)", "PanicToggle")
	return ret
}

func (s *SongPanel) Layout(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	paint.FillShape(gtx.Ops, th.SongPanel.Bg, clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Op())
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(s.layoutMenuBar),
		layout.Rigid(s.PlayBar.Layout),
		layout.Rigid(s.layoutSongSettings),
		layout.Rigid(s.layoutOutput),
		layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
		layout.Rigid(func(gtx C) D {
			return Label(th, &th.SongPanel.Version, version.VersionOrHash).Layout(gtx)
		}),
	)
}

func (s *SongPanel) layoutMenuBar(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	gtx.Constraints.Max.Y = gtx.Dp(unit.Dp(36))
	gtx.Constraints.Min.Y = gtx.Constraints.Max.Y
	s.updateMIDIMenu(t)
	panicBtn := ToggleIconBtn(t.Play().Panicked(), th, s.PanicBtn, icons.AlertErrorOutline, icons.AlertError, s.panicHint, s.panicHint)
	if t.Play().Panicked().Value() {
		panicBtn.Style = &th.IconButton.Error
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.End}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return MenuBtn(th, &s.FileMenu, s.FileBtn, "File").Layout(gtx, s.fileMenuItems...)
		}),
		layout.Rigid(func(gtx C) D {
			return MenuBtn(th, &s.EditMenu, s.EditBtn, "Edit").Layout(gtx, s.editMenuItems...)
		}),
		layout.Rigid(func(gtx C) D {
			return MenuBtn(th, &s.MIDIMenu, s.MIDIBtn, "MIDI").Layout(gtx, s.midiMenuItems...)
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.E.Layout(gtx, panicBtn.Layout)
		}),
	)
}

// updateMIDIMenu rebuilds the MIDI menu every frame, as refreshing changes
// the device list.
func (s *SongPanel) updateMIDIMenu(t *Editor) {
	s.midiMenuItems = s.midiMenuItems[:0]
	s.midiMenuItems = append(s.midiMenuItems,
		MenuItem(t.MIDI().Refresh(), "Refresh devices", keyActionMap["MIDIRefresh"], icons.NotificationSync))
	input := t.MIDI().Input()
	for i := 0; i <= input.Range().Max; i++ {
		icon := icons.ToggleRadioButtonUnchecked
		if i == input.Value() {
			icon = icons.ToggleRadioButtonChecked
		}
		act := editor.MakeAction(setMIDIInput{input: input, value: i})
		s.midiMenuItems = append(s.midiMenuItems, MenuItem(act, input.StringOf(i), "", icon))
	}
}

type setMIDIInput struct {
	input editor.Int
	value int
}

func (a setMIDIInput) Do() { a.input.SetValue(a.value) }

func (s *SongPanel) layoutSongSettings(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	return s.SongSettingsExpander.Layout(gtx, th, "Song",
		func(gtx C) D {
			summary := fmt.Sprintf("%d BPM, %s/%s", t.BPM().Value(),
				t.Numerator().String(), t.Denominator().String())
			return Label(th, &th.SongPanel.RowHeader, summary).Layout(gtx)
		},
		func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					return layoutSongOptionRow(gtx, th, "BPM",
						NumUpDown(t.BPM(), th, s.BPM, "Beats per minute").Layout)
				}),
				layout.Rigid(func(gtx C) D {
					return layoutSongOptionRow(gtx, th, "Time sig.", func(gtx C) D {
						return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
							layout.Rigid(NumUpDown(t.Numerator(), th, s.Numerator, "Beats per measure").Layout),
							layout.Rigid(Label(th, &th.SongPanel.RowValue, "/").Layout),
							layout.Rigid(NumUpDown(t.Denominator(), th, s.Denominator, "Beat unit").Layout),
						)
					})
				}),
				layout.Rigid(func(gtx C) D {
					return s.layoutTextRow(gtx, th, "Title", s.TitleField, t.Title(), "song title")
				}),
				layout.Rigid(func(gtx C) D {
					return s.layoutTextRow(gtx, th, "Author", s.AuthorField, t.Author(), "author")
				}),
			)
		})
}

func (s *SongPanel) layoutOutput(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	return s.OutputExpander.Layout(gtx, th, "Output",
		func(gtx C) D {
			return Label(th, &th.SongPanel.RowHeader, fmt.Sprintf("%d voices", t.ActiveVoices())).Layout(gtx)
		},
		func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					return layoutSongOptionRow(gtx, th, "Synth",
						Label(th, &th.SongPanel.RowValue, t.Play().SyntherName()).Layout)
				}),
				layout.Rigid(func(gtx C) D {
					return layoutSongOptionRow(gtx, th, "Voices",
						Label(th, &th.SongPanel.RowValue, fmt.Sprintf("%d / %d", t.ActiveVoices(), rulla.NumVoices)).Layout)
				}),
				layout.Rigid(func(gtx C) D {
					return layout.Inset{Left: unit.Dp(6), Right: unit.Dp(6), Top: unit.Dp(2), Bottom: unit.Dp(2)}.Layout(gtx,
						VuMeterWidget(t.Volume(), th).Layout)
				}),
			)
		})
}

func (s *SongPanel) layoutTextRow(gtx C, th *Theme, label string, field *TextField, str editor.String, hint string) D {
	leftSpacer := layout.Spacer{Width: unit.Dp(6), Height: unit.Dp(24)}.Layout
	rightSpacer := layout.Spacer{Width: unit.Dp(6)}.Layout
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(leftSpacer),
		layout.Rigid(Label(th, &th.SongPanel.RowHeader, label).Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx C) D {
			return field.Layout(gtx, str, th, &th.TextField, hint)
		}),
		layout.Rigid(rightSpacer),
	)
}

func layoutSongOptionRow(gtx C, th *Theme, label string, widget layout.Widget) D {
	leftSpacer := layout.Spacer{Width: unit.Dp(6), Height: unit.Dp(24)}.Layout
	rightSpacer := layout.Spacer{Width: unit.Dp(6)}.Layout
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(leftSpacer),
		layout.Rigid(Label(th, &th.SongPanel.RowHeader, label).Layout),
		layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
		layout.Rigid(widget),
		layout.Rigid(rightSpacer),
	)
}

type Expander struct {
	Expanded bool
	click    gesture.Click
}

func (e *Expander) Update(gtx C) {
	for ev, ok := e.click.Update(gtx.Source); ok; ev, ok = e.click.Update(gtx.Source) {
		switch ev.Kind {
		case gesture.KindClick:
			e.Expanded = !e.Expanded
		}
	}
}

func (e *Expander) Layout(gtx C, th *Theme, title string, smallWidget, largeWidget layout.Widget) D {
	e.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D { return e.layoutHeader(gtx, th, title, smallWidget) }),
		layout.Rigid(func(gtx C) D {
			if e.Expanded {
				return largeWidget(gtx)
			}
			return D{}
		}),
		layout.Rigid(func(gtx C) D {
			px := max(gtx.Dp(unit.Dp(1)), 1)
			paint.FillShape(gtx.Ops, color.NRGBA{255, 255, 255, 3}, clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, px)).Op())
			return D{Size: image.Pt(gtx.Constraints.Max.X, px)}
		}),
	)
}

func (e *Expander) layoutHeader(gtx C, th *Theme, title string, smallWidget layout.Widget) D {
	return layout.Background{}.Layout(gtx,
		func(gtx C) D {
			defer clip.Rect(image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y)).Push(gtx.Ops).Pop()
			e.click.Add(gtx.Ops)
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			leftSpacer := layout.Spacer{Width: unit.Dp(6), Height: unit.Dp(24)}.Layout
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(leftSpacer),
				layout.Rigid(Label(th, &th.SongPanel.Expander, title).Layout),
				layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
				layout.Rigid(smallWidget),
				layout.Rigid(func(gtx C) D {
					icon := icons.NavigationExpandMore
					if e.Expanded {
						icon = icons.NavigationExpandLess
					}
					gtx.Constraints.Min = image.Pt(gtx.Dp(unit.Dp(24)), gtx.Dp(unit.Dp(24)))
					return th.Icon(icon).Layout(gtx, th.Material.Fg)
				}),
			)
		},
	)
}

type PlayBar struct {
	RewindBtn *Clickable
	PlayBtn   *Clickable
	RecordBtn *Clickable
	FollowBtn *Clickable
	LoopBtn   *Clickable

	rewindHint                  string
	playHint, stopHint          string
	recordHint, stopRecordHint  string
	followOnHint, followOffHint string
	loopOffHint, loopOnHint     string
}

func NewPlayBar() *PlayBar {
	ret := &PlayBar{
		RewindBtn: &Clickable{},
		PlayBtn:   &Clickable{},
		RecordBtn: &Clickable{},
		FollowBtn: &Clickable{},
		LoopBtn:   &Clickable{},
	}
	ret.rewindHint = makeHint("Rewind", "\n(%s)", "PlaySongStartUnfollow")
	ret.playHint = makeHint("Play", " (%s)", "PlayingToggleUnfollow")
	ret.stopHint = makeHint("Stop", " (%s)", "StopPlaying")
	ret.recordHint = makeHint("Record", " (%s)", "RecordingToggle")
	ret.stopRecordHint = makeHint("Stop", " (%s)", "RecordingToggle")
	ret.followOnHint = makeHint("Follow on", " (%s)", "FollowToggle")
	ret.followOffHint = makeHint("Follow off", " (%s)", "FollowToggle")
	ret.loopOffHint = makeHint("Loop off", " (%s)", "LoopToggle")
	ret.loopOnHint = makeHint("Loop on", " (%s)", "LoopToggle")
	return ret
}

func (pb *PlayBar) Layout(gtx C) D {
	t := EditorFromContext(gtx)
	th := t.Theme
	rewindBtn := ActionIconBtn(t.Play().FromBeginning(), th, pb.RewindBtn, icons.AVFastRewind, pb.rewindHint)
	playBtn := ToggleIconBtn(t.Play().Started(), th, pb.PlayBtn, icons.AVPlayArrow, icons.AVStop, pb.playHint, pb.stopHint)
	recordBtn := ToggleIconBtn(t.Play().IsRecording(), th, pb.RecordBtn, icons.AVFiberManualRecord, icons.AVFiberSmartRecord, pb.recordHint, pb.stopRecordHint)
	followBtn := ToggleIconBtn(t.Play().IsFollowing(), th, pb.FollowBtn, icons.ActionSpeakerNotesOff, icons.ActionSpeakerNotes, pb.followOffHint, pb.followOnHint)
	loopBtn := ToggleIconBtn(t.Play().IsLooping(), th, pb.LoopBtn, icons.NavigationArrowForward, icons.AVLoop, pb.loopOffHint, pb.loopOnHint)
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, playBtn.Layout),
		layout.Rigid(rewindBtn.Layout),
		layout.Rigid(recordBtn.Layout),
		layout.Rigid(followBtn.Layout),
		layout.Rigid(loopBtn.Layout),
	)
}
