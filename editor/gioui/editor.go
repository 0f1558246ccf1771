package gioui

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/x/explorer"

	"github.com/nuottila/rulla/editor"
)

type (
	Editor struct {
		Theme           *Theme
		HorizontalSplit *SplitState
		KeyNoteMap      Keyboard[key.Name]
		PopupAlert      *PopupAlert

		DialogState *DialogState

		SongPanel *SongPanel
		Roll      *Roll
		Explorer  *explorer.Explorer
		Exploring bool

		filePathString editor.String
		noteEvents     []editor.NoteEvent

		preferences Preferences

		*editor.Model
	}

	C = layout.Context
	D = layout.Dimensions
)

func NewEditor(model *editor.Model, preferences Preferences) *Editor {
	t := &Editor{
		HorizontalSplit: &SplitState{Ratio: -.6},

		DialogState: new(DialogState),
		Roll:        NewRoll(model),

		Model: model,

		filePathString: model.FilePath(),
		preferences:    preferences,
	}
	t.SongPanel = NewSongPanel(t)
	t.KeyNoteMap = MakeKeyboard[key.Name](model.Broker())
	t.PopupAlert = NewPopupAlert(model.Alerts())
	var warn error
	if t.Theme, warn = NewTheme(); warn != nil {
		model.Alerts().AddAlert(editor.Alert{
			Priority: editor.Warning,
			Message:  warn.Error(),
			Duration: 10 * time.Second,
		})
	}
	t.Theme.Material.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	if t.preferences.YmlError != nil {
		model.Alerts().AddAlert(editor.Alert{
			Priority: editor.Warning,
			Message:  fmt.Sprintf("preferences.yml: %v", t.preferences.YmlError),
			Duration: 10 * time.Second,
		})
	}
	return t
}

func (t *Editor) Main() {
	recoveryTicker := time.NewTicker(time.Second * 30)
	var ops op.Ops
	titlePath := ""
	globals := make(map[string]any, 1)
	globals["Editor"] = t
	for !t.Quitted() {
		w := t.newWindow()
		w.Option(app.Title(titleFromPath(titlePath)))
		t.Explorer = explorer.NewExplorer(w)
		acks := make(chan struct{})
		events := make(chan event.Event)
		go func() {
			for {
				ev := w.Event()
				events <- ev
				<-acks
				if _, ok := ev.(app.DestroyEvent); ok {
					return
				}
			}
		}()
	F:
		for {
			select {
			case e := <-t.Broker().ToGUI:
				switch e := e.(type) {
				case editor.NoteEvent:
					t.noteEvents = append(t.noteEvents, e)
				case editor.MsgToGUI:
					switch e.Kind {
					case editor.GUIMessageCenterOnPosition:
						t.CenterOnPosition(e.Position)
					case editor.GUIMessageEnsureVisible:
						t.EnsureVisiblePosition(e.Position)
					}
				}
				w.Invalidate()
			case e := <-t.Broker().ToModel:
				t.ProcessMsg(e)
				w.Invalidate()
			case <-t.Broker().CloseGUI:
				t.ForceQuit().Do()
				w.Perform(system.ActionClose)
			case e := <-events:
				switch e := e.(type) {
				case app.DestroyEvent:
					t.RequestQuit().Do()
					acks <- struct{}{}
					break F // this window is done, we need to create a new one
				case app.FrameEvent:
					if titlePath != t.filePathString.Value() {
						titlePath = t.filePathString.Value()
						w.Option(app.Title(titleFromPath(titlePath)))
					}
					gtx := app.NewContext(&ops, e)
					gtx.Values = globals
					t.Layout(gtx, w)
					e.Frame(gtx.Ops)
					if t.Quitted() {
						w.Perform(system.ActionClose)
					}
				}
				acks <- struct{}{}
			case <-recoveryTicker.C:
				t.SaveRecovery()
			}
		}
	}
	recoveryTicker.Stop()
	t.RemoveRecovery()
	close(t.Broker().FinishedGUI)
}

func EditorFromContext(gtx C) *Editor {
	t, ok := gtx.Values["Editor"]
	if !ok {
		panic("Editor not found in context values")
	}
	return t.(*Editor)
}

func (t *Editor) newWindow() *app.Window {
	w := new(app.Window)
	w.Option(app.Size(t.preferences.WindowSize()))
	if t.preferences.Window.Maximized {
		w.Option(app.Maximized.Option())
	}
	return w
}

func titleFromPath(path string) string {
	if path == "" {
		return "Rulla"
	}
	return fmt.Sprintf("Rulla - %s", path)
}

func (t *Editor) Layout(gtx layout.Context, w *app.Window) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, t.Theme.Material.Bg)
	event.Op(gtx.Ops, t) // area for receiving pasted and dropped text

	t.HorizontalSplit.Layout(gtx,
		&t.Theme.Split,
		t.SongPanel.Layout,
		t.Roll.Layout)
	t.PopupAlert.Layout(gtx, t.Theme)
	t.showDialog(gtx)
	// this is the top level input handler for the whole app
	// it handles all the global key events and clipboard events
	// we need to tell gio that we handle tabs too; otherwise
	// it will steal them for focus switching
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
			key.Filter{Name: key.NameTab, Optional: key.ModShift | key.ModShortcut},
			transfer.TargetFilter{Target: t, Type: "application/text"},
		)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case key.Event:
			t.KeyEvent(e, gtx)
		case transfer.DataEvent:
			t.readClipboard(e.Open())
		}
	}
	// the note events were either consumed by the key strip highlights
	// during the layout above, or they are dropped here
	t.noteEvents = t.noteEvents[:0]
}

// readClipboard handles text pasted or dropped into the window: the note
// clipboard format first, whole song files second.
func (t *Editor) readClipboard(rc io.ReadCloser) {
	b, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return
	}
	if t.Notes().Paste(b) {
		return
	}
	t.ReadSong(io.NopCloser(bytes.NewReader(b)))
}

func (t *Editor) showDialog(gtx C) {
	if t.Exploring {
		return
	}
	switch t.Dialog() {
	case editor.NewSongChanges, editor.OpenSongChanges, editor.QuitChanges:
		dialog := MakeDialog(t.Theme, t.DialogState, "Save changes to song?", "Your changes will be lost if you don't save them.",
			DialogBtn("Save", t.SaveSong()),
			DialogBtn("Don't save", t.DiscardSong()),
			DialogBtn("Cancel", t.Cancel()),
		)
		dialog.Layout(gtx)
	case editor.Export:
		dialog := MakeDialog(t.Theme, t.DialogState, "Export format", "Choose the sample format for the exported .wav file.",
			DialogBtn("Int16", t.ExportInt16()),
			DialogBtn("Float32", t.ExportFloat()),
			DialogBtn("Cancel", t.Cancel()),
		)
		dialog.Layout(gtx)
	case editor.OpenSongOpenExplorer:
		t.explorerChooseFile(t.ReadSong, ".yml", ".json", ".mid")
	case editor.NewSongSaveExplorer, editor.OpenSongSaveExplorer, editor.QuitSaveExplorer, editor.SaveAsExplorer:
		filename := t.filePathString.Value()
		if filename == "" {
			filename = "song.yml"
		}
		t.explorerCreateFile(t.WriteSong, filename)
	case editor.ExportFloatExplorer, editor.ExportInt16Explorer:
		t.explorerCreateFile(func(wc io.WriteCloser) {
			t.WriteWav(wc, t.Dialog() == editor.ExportInt16Explorer)
		}, t.exportName(".wav"))
	case editor.ExportSMFExplorer:
		t.explorerCreateFile(t.WriteSMF, t.exportName(".mid"))
	case editor.ExportTextExplorer:
		t.explorerCreateFile(t.WriteText, t.exportName(".txt"))
	}
}

// exportName derives a default export file name from the song file path.
func (t *Editor) exportName(ext string) string {
	if p := t.filePathString.Value(); p != "" {
		return p[:len(p)-len(filepath.Ext(p))] + ext
	}
	return "song" + ext
}

func (t *Editor) explorerChooseFile(success func(io.ReadCloser), extensions ...string) {
	t.Exploring = true
	go func() {
		file, err := t.Explorer.ChooseFile(extensions...)
		t.Broker().ToModel <- editor.MsgToModel{Data: func() {
			t.Exploring = false
			if err == nil {
				success(file)
			} else {
				t.Cancel().Do()
				if err != explorer.ErrUserDecline {
					t.Alerts().Add(err.Error(), editor.Error)
				}
			}
		}}
	}()
}

func (t *Editor) explorerCreateFile(success func(io.WriteCloser), filename string) {
	t.Exploring = true
	go func() {
		file, err := t.Explorer.CreateFile(filename)
		t.Broker().ToModel <- editor.MsgToModel{Data: func() {
			t.Exploring = false
			if err == nil {
				success(file)
			} else {
				t.Cancel().Do()
				if err != explorer.ErrUserDecline {
					t.Alerts().Add(err.Error(), editor.Error)
				}
			}
		}}
	}()
}
