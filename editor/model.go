package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"

	"github.com/nuottila/rulla"
)

// Model is the mutable state of the editor program.
//
// It is owned by the GUI goroutine, while the player is owned by the audio
// thread; everything crossing that line goes through the Broker. The GUI
// reads the model directly when laying out a frame and mutates it only
// through the methods and views, all of which funnel through change, so
// the derived data and the player stay in sync no matter which code path
// touched the song.
type (
	// modelData is the part of the model that gets saved to the recovery
	// file: the song itself plus the editing settings worth restoring
	// after a crash.
	modelData struct {
		Song         rulla.Song
		Selection    Selection
		Snap         rulla.Snap
		Mode         EditMode
		Octave       int
		NoteVelocity int
		Follow       bool
		Loop         bool

		FilePath             string
		ChangedSinceSave     bool
		RecoveryFilePath     string
		ChangedSinceRecovery bool
	}

	Model struct {
		d modelData

		session  Session
		viewport Viewport
		derived  derivedModelData
		alerts   []Alert
		dialog   Dialog

		playing      bool
		panicked     bool
		recording    bool
		playPosition float64
		voiceLevels  [rulla.NumVoices]float32
		volume       VolumeAnalyzer

		// notes held down while recording, by pitch
		recordingNotes map[int]recordingNote

		changeLevel    int
		changeKind     ChangeKind
		changeSeverity ChangeSeverity

		quitted bool

		broker       *Broker
		synthers     []rulla.Synther
		syntherIndex int
		midi         midiState

		requestAutosave func(func())
	}

	ChangeKind     int
	ChangeSeverity int
)

const (
	MinorChange ChangeSeverity = iota
	MajorChange
)

const (
	NoChange   ChangeKind = 0
	NoteChange ChangeKind = 1 << iota
	SongChange
	SettingChange
)

const (
	defaultOctave    = 4
	autosaveDebounce = 5 * time.Second
)

func NewModel(broker *Broker, synthers []rulla.Synther, midiContext MIDIContext, recoveryFilePath string) *Model {
	m := &Model{
		broker:          broker,
		synthers:        synthers,
		midi:            midiState{context: midiContext},
		session:         Idle{},
		viewport:        NewViewport(),
		volume:          NewVolumeAnalyzer(),
		recordingNotes:  make(map[int]recordingNote),
		requestAutosave: debounce.New(autosaveDebounce),
	}
	m.d = modelData{
		Song:             defaultSong.Copy(),
		Snap:             rulla.SnapQuarter,
		Mode:             ModeDraw,
		Octave:           defaultOctave,
		NoteVelocity:     DefaultNoteVelocity,
		Follow:           true,
		RecoveryFilePath: recoveryFilePath,
	}
	if recoveryFilePath != "" {
		if b, err := os.ReadFile(recoveryFilePath); err == nil {
			json.Unmarshal(b, &m.d)
			m.d.RecoveryFilePath = recoveryFilePath
		}
	}
	m.d.Song = m.d.Song.Normalized()
	m.d.Selection = m.d.Selection.Pruned(m.d.Song.Notes)
	m.initDerivedData()
	m.MIDI().refresh()
	m.sendSongToPlayer()
	go runMIDIRouter(broker)
	return m
}

// Close stops the MIDI router and closes the MIDI context. Call this
// last, after the audio and the GUI have been torn down.
func (m *Model) Close() {
	close(m.broker.CloseMIDIRouter)
	TimeoutReceive(m.broker.FinishedMIDIRouter, time.Second)
	if m.midi.context != nil {
		m.midi.context.Close()
	}
}

// change is how every mutation of the model data runs. It returns the
// closing func to defer, so nested operations coalesce into a single
// change. When the outermost change closes, the derived data is
// refreshed, the player gets the new song and a recovery save is
// scheduled; a MajorChange writes the recovery file right away instead of
// waiting for the debounce.
func (m *Model) change(kind ChangeKind, severity ChangeSeverity) func() {
	if m.changeLevel == 0 {
		m.changeKind = kind
		m.changeSeverity = severity
	} else {
		m.changeKind |= kind
		if severity > m.changeSeverity {
			m.changeSeverity = severity
		}
	}
	if kind&(NoteChange|SongChange) != 0 {
		m.d.ChangedSinceSave = true
	}
	m.d.ChangedSinceRecovery = true
	m.changeLevel++
	return func() {
		m.changeLevel--
		if m.changeLevel > 0 {
			return
		}
		if m.changeKind&(NoteChange|SongChange) != 0 {
			m.d.Selection = m.d.Selection.Pruned(m.d.Song.Notes)
			m.updateDerivedNoteData()
			m.sendSongToPlayer()
		}
		m.changeKind = NoChange
		if m.changeSeverity == MajorChange {
			m.SaveRecovery()
		} else {
			m.requestAutosave(m.autosave)
		}
	}
}

func (m *Model) sendSongToPlayer() {
	TrySend(m.broker.ToPlayer, any(m.d.Song.Copy()))
}

// autosave runs on the debouncer's timer goroutine; hop back to the model
// goroutine before touching anything.
func (m *Model) autosave() {
	TrySend(m.broker.ToModel, MsgToModel{Data: func() { m.SaveRecovery() }})
}

// Interact folds one pointer or lyric event into the gesture session,
// committing whatever notes and selection come out of the reducer.
func (m *Model) Interact(e Event) {
	st := EditState{Notes: m.d.Song.Notes, Selection: m.d.Selection}
	session, st, notifications := Reduce(m.session, e, st, m.gridConfig())
	m.session = session
	if len(notifications) == 0 {
		m.d.Selection = st.Selection
		return
	}
	defer m.change(NoteChange, MinorChange)()
	m.d.Song.Notes = st.Notes
	m.d.Selection = st.Selection
}

func (m *Model) gridConfig() GridConfig {
	return GridConfig{
		TimeSignature: m.d.Song.TimeSignature,
		Snap:          m.d.Snap,
		Mode:          m.d.Mode,
		Velocity:      m.d.NoteVelocity,
	}
}

// Session exposes the gesture in flight, so the GUI can pick cursors and
// pop up the lyric editor.
func (m *Model) Session() Session { return m.session }

// RollFrame snapshots everything the roll needs to draw itself.
func (m *Model) RollFrame() RollFrame {
	return RollFrame{
		Viewport:      m.viewport,
		Notes:         m.d.Song.Notes,
		Selection:     m.d.Selection,
		TimeSignature: m.d.Song.TimeSignature,
		Snap:          m.d.Snap,
		Playhead:      m.playPosition,
		Playing:       m.playing,
	}
}

func (m *Model) Viewport() Viewport { return m.viewport }

// ScrollBy moves the viewport by a wheel delta in screen pixels.
func (m *Model) ScrollBy(dx, dy float64) bool {
	v, changed := m.viewport.Scrolled(dx, dy, m.derived.contentWidth)
	m.viewport = v
	return changed
}

// SetScroll jumps to absolute offsets, as the scroll bars do.
func (m *Model) SetScroll(x, y float64) bool {
	v, changed := m.viewport.WithScroll(x, y, m.derived.contentWidth)
	m.viewport = v
	return changed
}

func (m *Model) ResizeViewport(w, h float64) {
	m.viewport = m.viewport.Resized(w, h, m.derived.contentWidth)
}

// ZoomBy steps the zoom by delta levels, anchored at a point in screen
// pixels so the content under the pointer stays put.
func (m *Model) ZoomBy(delta int, anchorX, anchorY float64) bool {
	old := m.viewport
	m.viewport = m.viewport.Zoomed(m.viewport.Zoom+delta, anchorX, anchorY, m.derived.contentWidth)
	return m.viewport != old
}

func (m *Model) EnsureVisiblePosition(x float64) {
	m.viewport = m.viewport.EnsureVisible(x, m.derived.contentWidth)
}

func (m *Model) CenterOnPosition(x float64) {
	m.viewport = m.viewport.CenteredOn(x, m.derived.contentWidth)
}

// ProcessMsg handles one broker message on the model goroutine.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasPanicPosLevels {
		m.playPosition = msg.SongPosition
		m.panicked = msg.Panic
		m.voiceLevels = msg.VoiceLevels
		if m.playing && m.d.Follow {
			TrySend(m.broker.ToGUI, any(MsgToGUI{Kind: GUIMessageEnsureVisible, Position: msg.SongPosition}))
		}
	}
	switch e := msg.Data.(type) {
	case func():
		e()
	case Alert:
		m.Alerts().AddAlert(e)
	case rulla.AudioBuffer:
		if err := m.volume.Update(e); err != nil {
			m.Alerts().AddNamed("VolumeAnalyzer", err.Error(), Warning)
		}
		m.broker.PutAudioBuffer(e)
	case IsPlayingMsg:
		m.playing = e.Playing
	case NoteEvent:
		m.handleMIDIEvent(e)
	}
}

func (m *Model) Broker() *Broker { return m.broker }

func (m *Model) PlayPosition() float64 { return m.playPosition }

// ActiveVoices counts the voices currently sounding, for the status
// display.
func (m *Model) ActiveVoices() int {
	count := 0
	for _, l := range m.voiceLevels {
		if l > 1e-4 {
			count++
		}
	}
	return count
}

func (m *Model) Volume() Volume { return m.volume.Volume }

func (m *Model) ChangedSinceSave() bool { return m.d.ChangedSinceSave }

func (m *Model) Quitted() bool { return m.quitted }

// SaveRecovery writes the model data to the recovery file if something
// changed since the last write. Called on a timer and debounced after
// edits.
func (m *Model) SaveRecovery() error {
	if !m.d.ChangedSinceRecovery {
		return nil
	}
	if m.d.RecoveryFilePath == "" {
		return errors.New("no recovery file path")
	}
	out, err := json.Marshal(m.d)
	if err != nil {
		return fmt.Errorf("could not marshal recovery data: %w", err)
	}
	dir := filepath.Dir(m.d.RecoveryFilePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, os.ModePerm)
	}
	file, err := os.Create(m.d.RecoveryFilePath)
	if err != nil {
		return fmt.Errorf("could not create recovery file: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(out); err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	return nil
}

// RemoveRecovery deletes the recovery file. Called after a clean save or
// exit; a recovery file present on startup means the previous session
// did not get that far.
func (m *Model) RemoveRecovery() {
	if m.d.RecoveryFilePath == "" {
		return
	}
	os.Remove(m.d.RecoveryFilePath)
	m.d.ChangedSinceRecovery = false
}
