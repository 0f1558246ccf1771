package editor_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
	"github.com/nuottila/rulla/synth"
)

type myWriteCloser struct {
	*bytes.Buffer
}

func (m myWriteCloser) Close() error {
	// do nothing
	return nil
}

func newTestModel(t *testing.T) *editor.Model {
	m := editor.NewModel(editor.NewBroker(), []rulla.Synther{synth.Sine()}, editor.NullMIDIContext{}, "")
	t.Cleanup(m.Close)
	return m
}

func marshalSong(t *testing.T) []byte {
	song := rulla.Song{
		Title:         "Roundtrip",
		Author:        "Tester",
		BPM:           90,
		TimeSignature: rulla.TimeSignature{Numerator: 3, Denominator: 4},
		Notes: rulla.NoteList{
			{Start: 0, Duration: 40, Pitch: 60, Velocity: 100, Lyric: "la"},
			{Start: 40, Duration: 80, Pitch: 64, Velocity: 80},
		},
	}
	b, err := yaml.Marshal(song)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	return b
}

func TestWriteSongReadSongRoundTrip(t *testing.T) {
	m := newTestModel(t)
	m.ReadSong(io.NopCloser(bytes.NewReader(marshalSong(t))))
	buf := bytes.NewBuffer(nil)
	m.WriteSong(myWriteCloser{buf})

	m2 := newTestModel(t)
	m2.ReadSong(io.NopCloser(bytes.NewReader(buf.Bytes())))
	if got := m2.Title().Value(); got != "Roundtrip" {
		t.Errorf("Title = %q, want Roundtrip", got)
	}
	if got := m2.Author().Value(); got != "Tester" {
		t.Errorf("Author = %q, want Tester", got)
	}
	if got := m2.BPM().Value(); got != 90 {
		t.Errorf("BPM = %d, want 90", got)
	}
	if got := m2.Notes().Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestReadSongJSON(t *testing.T) {
	song := rulla.Song{Title: "Json", BPM: 150, Notes: rulla.NoteList{{Start: 0, Duration: 20, Pitch: 72, Velocity: 90}}}
	b, err := json.Marshal(song)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	m := newTestModel(t)
	m.ReadSong(io.NopCloser(bytes.NewReader(b)))
	if got := m.Title().Value(); got != "Json" {
		t.Errorf("Title = %q, want Json", got)
	}
	if got := m.BPM().Value(); got != 150 {
		t.Errorf("BPM = %d, want 150", got)
	}
}

func TestReadSongSMF(t *testing.T) {
	song := rulla.Song{
		Title: "Midi",
		BPM:   100,
		Notes: rulla.NoteList{{Start: 40, Duration: 40, Pitch: 67, Velocity: 101}},
	}.Normalized()
	buf := bytes.NewBuffer(nil)
	if err := rulla.WriteSMF(song, buf); err != nil {
		t.Fatalf("WriteSMF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("MThd")) {
		t.Fatal("smf output is missing the MThd header")
	}
	m := newTestModel(t)
	m.ReadSong(io.NopCloser(bytes.NewReader(buf.Bytes())))
	if got := m.BPM().Value(); got != 100 {
		t.Errorf("BPM = %d, want 100", got)
	}
	if got := m.Notes().Count(); got != 1 {
		t.Fatalf("Count = %d, want 1", got)
	}
	frame := m.RollFrame()
	if frame.Notes[0].Pitch != 67 || frame.Notes[0].Velocity != 101 {
		t.Errorf("note = %+v, want pitch 67 velocity 101", frame.Notes[0])
	}
}

func TestReadSongGarbage(t *testing.T) {
	m := newTestModel(t)
	m.ReadSong(io.NopCloser(bytes.NewReader([]byte("{{{not a song"))))
	if got := m.BPM().Value(); got != rulla.DefaultBPM {
		t.Errorf("BPM = %d after a failed load, want the default", got)
	}
	count := 0
	m.Alerts().Iterate(func(index int, a editor.Alert) bool {
		if a.Priority == editor.Error {
			count++
		}
		return true
	})
	if count != 1 {
		t.Errorf("error alerts = %d, want 1", count)
	}
}

func TestNewSongFlow(t *testing.T) {
	m := newTestModel(t)
	// nothing changed yet, so the new song happens without a dialog
	m.NewSong().Do()
	if got := m.Dialog(); got != editor.NoDialog {
		t.Fatalf("Dialog = %v, want NoDialog", got)
	}
	m.BPM().SetValue(140)
	if !m.ChangedSinceSave() {
		t.Fatal("editing the BPM did not mark the song changed")
	}
	m.NewSong().Do()
	if got := m.Dialog(); got != editor.NewSongChanges {
		t.Fatalf("Dialog = %v, want NewSongChanges", got)
	}
	if got := m.BPM().Value(); got != 140 {
		t.Fatalf("BPM = %d while the dialog is up, want 140", got)
	}
	m.DiscardSong().Do()
	if got := m.Dialog(); got != editor.NoDialog {
		t.Errorf("Dialog = %v after discard, want NoDialog", got)
	}
	if got := m.BPM().Value(); got != rulla.DefaultBPM {
		t.Errorf("BPM = %d after discard, want the default", got)
	}
	if m.ChangedSinceSave() {
		t.Error("fresh song is marked changed")
	}
}

func TestOpenSongFlow(t *testing.T) {
	m := newTestModel(t)
	m.OpenSong().Do()
	if got := m.Dialog(); got != editor.OpenSongOpenExplorer {
		t.Fatalf("Dialog = %v, want OpenSongOpenExplorer", got)
	}
	m.Cancel().Do()
	if got := m.Dialog(); got != editor.NoDialog {
		t.Fatalf("Dialog = %v after cancel, want NoDialog", got)
	}

	m.BPM().SetValue(123)
	m.OpenSong().Do()
	if got := m.Dialog(); got != editor.OpenSongChanges {
		t.Fatalf("Dialog = %v, want OpenSongChanges", got)
	}
	m.DiscardSong().Do()
	if got := m.Dialog(); got != editor.OpenSongOpenExplorer {
		t.Fatalf("Dialog = %v after discard, want OpenSongOpenExplorer", got)
	}
	m.ReadSong(io.NopCloser(bytes.NewReader(marshalSong(t))))
	if got := m.Dialog(); got != editor.NoDialog {
		t.Errorf("Dialog = %v after loading, want NoDialog", got)
	}
	if got := m.BPM().Value(); got != 90 {
		t.Errorf("BPM = %d, want the loaded 90", got)
	}
}

func TestSaveSongFlow(t *testing.T) {
	m := newTestModel(t)
	m.SaveSong().Do()
	if got := m.Dialog(); got != editor.SaveAsExplorer {
		t.Fatalf("Dialog = %v, want SaveAsExplorer", got)
	}
	m.Cancel().Do()

	// saving through the unsaved changes dialog completes the pending new
	// song after the write finishes
	m.BPM().SetValue(140)
	m.NewSong().Do()
	m.SaveSong().Do()
	if got := m.Dialog(); got != editor.NewSongSaveExplorer {
		t.Fatalf("Dialog = %v, want NewSongSaveExplorer", got)
	}
	m.WriteSong(myWriteCloser{bytes.NewBuffer(nil)})
	if got := m.Dialog(); got != editor.NoDialog {
		t.Errorf("Dialog = %v after saving, want NoDialog", got)
	}
	if got := m.BPM().Value(); got != rulla.DefaultBPM {
		t.Errorf("BPM = %d after saving, want the new song default", got)
	}
}

func TestSaveSongWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.yml")
	m := newTestModel(t)
	m.BPM().SetValue(111)
	m.FilePath().SetValue(path)
	m.SaveSong().Do()
	if got := m.Dialog(); got != editor.NoDialog {
		t.Fatalf("Dialog = %v, want NoDialog", got)
	}
	if m.ChangedSinceSave() {
		t.Error("song still marked changed after saving")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading the saved file failed: %v", err)
	}
	var song rulla.Song
	if err := yaml.Unmarshal(b, &song); err != nil {
		t.Fatalf("saved file does not parse as yaml: %v", err)
	}
	if song.BPM != 111 {
		t.Errorf("saved BPM = %d, want 111", song.BPM)
	}
}

func TestRecoveryFile(t *testing.T) {
	dir := t.TempDir()
	recovery := filepath.Join(dir, "recovery")
	m := editor.NewModel(editor.NewBroker(), []rulla.Synther{synth.Sine()}, editor.NullMIDIContext{}, recovery)
	t.Cleanup(m.Close)
	m.BPM().SetValue(135)
	if err := m.SaveRecovery(); err != nil {
		t.Fatalf("SaveRecovery failed: %v", err)
	}
	if _, err := os.Stat(recovery); err != nil {
		t.Fatalf("recovery file missing after SaveRecovery: %v", err)
	}

	// a fresh model with the same recovery path picks up where we left off
	m2 := editor.NewModel(editor.NewBroker(), []rulla.Synther{synth.Sine()}, editor.NullMIDIContext{}, recovery)
	t.Cleanup(m2.Close)
	if got := m2.BPM().Value(); got != 135 {
		t.Fatalf("restored BPM = %d, want 135", got)
	}

	// a clean save makes the recovery file unnecessary
	m2.FilePath().SetValue(filepath.Join(dir, "song.yml"))
	m2.SaveSong().Do()
	if _, err := os.Stat(recovery); !os.IsNotExist(err) {
		t.Error("recovery file still exists after a clean save")
	}
}

func TestReadSongFromFileSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.yml")
	if err := os.WriteFile(path, marshalSong(t), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m := newTestModel(t)
	m.ReadSong(f)
	if got := m.FilePath().Value(); got != path {
		t.Errorf("FilePath = %q, want %q", got, path)
	}
	if m.ChangedSinceSave() {
		t.Error("song loaded from a file is marked changed")
	}
}

func TestExportDialogFlow(t *testing.T) {
	m := newTestModel(t)
	m.Export().Do()
	if got := m.Dialog(); got != editor.Export {
		t.Fatalf("Dialog = %v, want Export", got)
	}
	m.ExportInt16().Do()
	if got := m.Dialog(); got != editor.ExportInt16Explorer {
		t.Fatalf("Dialog = %v, want ExportInt16Explorer", got)
	}
	m.Cancel().Do()
	m.Export().Do()
	m.ExportFloat().Do()
	if got := m.Dialog(); got != editor.ExportFloatExplorer {
		t.Fatalf("Dialog = %v, want ExportFloatExplorer", got)
	}
	m.ExportSMF().Do()
	if got := m.Dialog(); got != editor.ExportSMFExplorer {
		t.Fatalf("Dialog = %v, want ExportSMFExplorer", got)
	}
	m.ExportText().Do()
	if got := m.Dialog(); got != editor.ExportTextExplorer {
		t.Fatalf("Dialog = %v, want ExportTextExplorer", got)
	}
}

func TestWriteSMFAndText(t *testing.T) {
	m := newTestModel(t)
	m.ReadSong(io.NopCloser(bytes.NewReader(marshalSong(t))))

	smfBuf := bytes.NewBuffer(nil)
	m.WriteSMF(myWriteCloser{smfBuf})
	if got := m.Dialog(); got != editor.NoDialog {
		t.Errorf("Dialog = %v after WriteSMF, want NoDialog", got)
	}
	if !bytes.HasPrefix(smfBuf.Bytes(), []byte("MThd")) {
		t.Error("WriteSMF output is missing the MThd header")
	}

	textBuf := bytes.NewBuffer(nil)
	m.WriteText(myWriteCloser{textBuf})
	if got := m.Dialog(); got != editor.NoDialog {
		t.Errorf("Dialog = %v after WriteText, want NoDialog", got)
	}
	if !bytes.Contains(textBuf.Bytes(), []byte("Roundtrip")) {
		t.Error("text export does not mention the song title")
	}
}
