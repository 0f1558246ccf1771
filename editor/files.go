package editor

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nuottila/rulla"
)

// Dialog enumerates the modal dialogs and file explorers the GUI may be
// showing. The save-your-changes flows (new, open, quit) walk through
// these states so that after saving or discarding, the action that
// started the flow still completes.
type Dialog int

const (
	NoDialog Dialog = iota
	NewSongChanges
	OpenSongChanges
	QuitChanges
	Export
	OpenSongOpenExplorer
	NewSongSaveExplorer
	OpenSongSaveExplorer
	QuitSaveExplorer
	SaveAsExplorer
	ExportFloatExplorer
	ExportInt16Explorer
	ExportSMFExplorer
	ExportTextExplorer
)

func (m *Model) Dialog() Dialog { return m.dialog }

var defaultSong = rulla.Song{
	BPM:           rulla.DefaultBPM,
	TimeSignature: rulla.TimeSignature{Numerator: 4, Denominator: 4},
}

// ReadSong loads a song from the reader, closing it when done. Standard
// MIDI files are recognized from their header; anything else is parsed as
// json and then as yaml.
func (m *Model) ReadSong(r io.ReadCloser) {
	b, err := io.ReadAll(r)
	if err != nil {
		return
	}
	err = r.Close()
	if err != nil {
		return
	}
	var song rulla.Song
	if bytes.HasPrefix(b, []byte("MThd")) {
		song, err = rulla.ReadSMF(bytes.NewReader(b))
		if err != nil {
			m.Alerts().Add(fmt.Sprintf("Error reading a MIDI file: %v", err), Error)
			return
		}
	} else if errJSON := json.Unmarshal(b, &song); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &song); errYaml != nil {
			m.Alerts().Add(fmt.Sprintf("Error unmarshaling a song file: %v / %v", errYaml, errJSON), Error)
			return
		}
	}
	f := m.change(SongChange, MajorChange)
	m.d.Song = song.Normalized()
	if f, ok := r.(*os.File); ok {
		m.d.FilePath = f.Name()
		// when the song is loaded from a file, we are quite confident that the file is persisted and thus
		// we can quit without worrying about losing changes
		m.d.ChangedSinceSave = false
	}
	f()
	m.completeAction(false)
}

// WriteSong saves the song to the writer, closing it when done. When the
// writer is a file with the extension ".json", the song is marshaled as
// json; otherwise as yaml.
func (m *Model) WriteSong(w io.WriteCloser) {
	path := ""
	if f, ok := w.(*os.File); ok {
		path = f.Name()
	}
	var contents []byte
	var err error
	if filepath.Ext(path) == ".json" {
		contents, err = json.Marshal(m.d.Song)
	} else {
		contents, err = yaml.Marshal(m.d.Song)
	}
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error marshaling a song file: %v", err), Error)
		return
	}
	if _, err := w.Write(contents); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error writing to file: %v", err), Error)
		return
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the song file: %v", err), Error)
		return
	}
	if path != "" {
		m.d.FilePath = path
		m.d.ChangedSinceSave = false
		m.RemoveRecovery()
	}
	m.completeAction(false)
}

// WriteWav renders the song and writes it to the given writer as a wav
// file, 16-bit signed ints when pcm16 is set and 32-bit floats otherwise.
// The render runs in a goroutine, reporting progress through a named
// alert.
func (m *Model) WriteWav(w io.WriteCloser, pcm16 bool) {
	m.dialog = NoDialog
	song := m.d.Song.Copy()
	synther := m.synthers[m.syntherIndex]
	go func() {
		b := make([]byte, 32+2)
		rand.Read(b)
		name := fmt.Sprintf("%x", b)[2 : 32+2]
		data, err := rulla.Play(synther, song, func(p float32) {
			txt := fmt.Sprintf("Exporting song: %.0f%%", p*100)
			TrySend(m.broker.ToModel, MsgToModel{Data: Alert{Message: txt, Priority: Info, Name: name, Duration: defaultAlertDuration}})
		})
		if err != nil {
			txt := fmt.Sprintf("Error rendering the song during export: %v", err)
			TrySend(m.broker.ToModel, MsgToModel{Data: Alert{Message: txt, Priority: Error, Name: name, Duration: defaultAlertDuration}})
			return
		}
		buffer, err := rulla.Wav(data, pcm16)
		if err != nil {
			txt := fmt.Sprintf("Error converting to .wav: %v", err)
			TrySend(m.broker.ToModel, MsgToModel{Data: Alert{Message: txt, Priority: Error, Name: name, Duration: defaultAlertDuration}})
			return
		}
		w.Write(buffer)
		w.Close()
	}()
}

// WriteSMF saves the song to the writer as a standard MIDI file, closing
// it when done.
func (m *Model) WriteSMF(w io.WriteCloser) {
	m.dialog = NoDialog
	if err := rulla.WriteSMF(m.d.Song, w); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error exporting a MIDI file: %v", err), Error)
		w.Close()
		return
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the MIDI file: %v", err), Error)
	}
}

// WriteText renders the song through the default text export template and
// writes the result to the writer, closing it when done.
func (m *Model) WriteText(w io.WriteCloser) {
	m.dialog = NoDialog
	if err := rulla.ExportText(m.d.Song, "", w); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error exporting the song as text: %v", err), Error)
		w.Close()
		return
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the text file: %v", err), Error)
	}
}

// newSong

type newSong Model

func (m *Model) NewSong() Action { return MakeAction((*newSong)(m)) }
func (m *newSong) Do() {
	m.dialog = NewSongChanges
	(*Model)(m).completeAction(true)
}

// openSong

type openSong Model

func (m *Model) OpenSong() Action { return MakeAction((*openSong)(m)) }
func (m *openSong) Do() {
	m.dialog = OpenSongChanges
	(*Model)(m).completeAction(true)
}

// requestQuit

type requestQuit Model

func (m *Model) RequestQuit() Action { return MakeAction((*requestQuit)(m)) }
func (m *requestQuit) Do() {
	if !m.quitted {
		m.dialog = QuitChanges
		(*Model)(m).completeAction(true)
	}
}

// forceQuit

type forceQuit Model

func (m *Model) ForceQuit() Action { return MakeAction((*forceQuit)(m)) }
func (m *forceQuit) Do()           { m.quitted = true }

// saveSong

type saveSong Model

func (m *Model) SaveSong() Action { return MakeAction((*saveSong)(m)) }
func (m *saveSong) Do() {
	if m.d.FilePath == "" {
		switch m.dialog {
		case NoDialog:
			m.dialog = SaveAsExplorer
		case NewSongChanges:
			m.dialog = NewSongSaveExplorer
		case OpenSongChanges:
			m.dialog = OpenSongSaveExplorer
		case QuitChanges:
			m.dialog = QuitSaveExplorer
		}
		return
	}
	f, err := os.Create(m.d.FilePath)
	if err != nil {
		(*Model)(m).Alerts().Add("Error creating file: "+err.Error(), Error)
		return
	}
	(*Model)(m).WriteSong(f)
}

// discardSong

type discardSong Model

func (m *Model) DiscardSong() Action { return MakeAction((*discardSong)(m)) }
func (m *discardSong) Do()           { (*Model)(m).completeAction(false) }

// saveSongAs

type saveSongAs Model

func (m *Model) SaveSongAs() Action { return MakeAction((*saveSongAs)(m)) }
func (m *saveSongAs) Do()           { m.dialog = SaveAsExplorer }

// cancel

type cancel Model

func (m *Model) Cancel() Action { return MakeAction((*cancel)(m)) }
func (m *cancel) Do()           { m.dialog = NoDialog }

// exportAction

type exportAction Model

func (m *Model) Export() Action { return MakeAction((*exportAction)(m)) }
func (m *exportAction) Do()     { m.dialog = Export }

// exportFloat

type exportFloat Model

func (m *Model) ExportFloat() Action { return MakeAction((*exportFloat)(m)) }
func (m *exportFloat) Do()           { m.dialog = ExportFloatExplorer }

// exportInt16

type exportInt16 Model

func (m *Model) ExportInt16() Action { return MakeAction((*exportInt16)(m)) }
func (m *exportInt16) Do()           { m.dialog = ExportInt16Explorer }

// exportSMF

type exportSMF Model

func (m *Model) ExportSMF() Action { return MakeAction((*exportSMF)(m)) }
func (m *exportSMF) Do()           { m.dialog = ExportSMFExplorer }

// exportText

type exportText Model

func (m *Model) ExportText() Action { return MakeAction((*exportText)(m)) }
func (m *exportText) Do()           { m.dialog = ExportTextExplorer }

// completeAction continues whatever flow the current dialog belongs to,
// after the user has chosen to save, discard or has finished saving.
// With checkSave set it does nothing while there are unsaved changes, so
// the dialog asking about them stays up.
func (m *Model) completeAction(checkSave bool) {
	if checkSave && m.d.ChangedSinceSave {
		return
	}
	switch m.dialog {
	case NewSongChanges, NewSongSaveExplorer:
		c := m.change(SongChange, MajorChange)
		m.resetSong()
		c()
		m.d.ChangedSinceSave = false
		m.dialog = NoDialog
	case OpenSongChanges, OpenSongSaveExplorer:
		m.dialog = OpenSongOpenExplorer
	case QuitChanges, QuitSaveExplorer:
		m.quitted = true
		m.dialog = NoDialog
	default:
		m.dialog = NoDialog
	}
}

func (m *Model) resetSong() {
	m.d.Song = defaultSong.Copy()
	m.d.FilePath = ""
	m.d.ChangedSinceSave = false
}
