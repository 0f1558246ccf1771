package editor

import (
	"fmt"
	"strings"

	"github.com/nuottila/rulla"
)

type MIDIModel Model

func (m *Model) MIDI() *MIDIModel { return (*MIDIModel)(m) }

type (
	midiState struct {
		currentInput MIDIInputDevice
		context      MIDIContext
		inputs       []MIDIInputDevice
	}

	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int

	recordingNote struct {
		start    float64
		velocity int
	}
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

// Refresh rescans the MIDI input devices, reopening the current input if
// it is still present.
func (m *MIDIModel) Refresh() Action { return MakeAction((*midiRefresh)(m)) }

type midiRefresh MIDIModel

func (m *midiRefresh) Do() { (*MIDIModel)(m).refresh() }

func (m *MIDIModel) refresh() {
	if m.midi.context == nil {
		return
	}
	m.midi.inputs = m.midi.inputs[:0]
	for i := range m.midi.context.Inputs {
		m.midi.inputs = append(m.midi.inputs, i)
		if m.midi.currentInput != nil && i.String() == m.midi.currentInput.String() {
			m.midi.currentInput.Close()
			m.midi.currentInput = nil
			if err := i.Open(); err != nil {
				(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to reopen MIDI input port: %s", err.Error()), Error)
				continue
			}
			m.midi.currentInput = i
		}
	}
}

// Input returns an Int stepping through the MIDI input devices. Value 0
// means no input is open; value i picks the device at index i-1.
func (m *MIDIModel) Input() Int { return MakeInt((*midiInputDevices)(m)) }

type midiInputDevices MIDIModel

func (m *midiInputDevices) Value() int {
	if m.midi.currentInput == nil {
		return 0
	}
	for i, d := range m.midi.inputs {
		if d == m.midi.currentInput {
			return i + 1
		}
	}
	return 0
}
func (m *midiInputDevices) SetValue(val int) bool {
	if val < 0 || val > len(m.midi.inputs) {
		return false
	}
	if m.midi.currentInput != nil {
		if err := m.midi.currentInput.Close(); err != nil {
			(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to close current MIDI input port: %s", err.Error()), Error)
		}
		m.midi.currentInput = nil
	}
	if val == 0 {
		return true
	}
	newInput := m.midi.inputs[val-1]
	if err := newInput.Open(); err != nil {
		(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to open MIDI input port: %s", err.Error()), Error)
		return false
	}
	m.midi.currentInput = newInput
	(*Model)(m).Alerts().Add(fmt.Sprintf("Opened MIDI input port: %s", newInput.String()), Info)
	return true
}
func (m *midiInputDevices) Range() RangeInclusive {
	return RangeInclusive{Min: 0, Max: len(m.midi.inputs)}
}
func (m *midiInputDevices) StringOf(value int) string {
	if value < 0 || value > len(m.midi.inputs) {
		return ""
	}
	if value == 0 {
		switch m.midi.context.Support() {
		case MIDISupportNotCompiled:
			return "Not compiled"
		case MIDISupportNoDriver:
			return "No driver"
		default:
			return "Closed"
		}
	}
	return m.midi.inputs[value-1].String()
}

// FindMIDIDeviceByPrefix returns the first MIDI input device whose name
// starts with the given prefix.
func FindMIDIDeviceByPrefix(context MIDIContext, prefix string) (device MIDIInputDevice, ok bool) {
	for input := range context.Inputs {
		if strings.HasPrefix(input.String(), prefix) {
			return input, true
		}
	}
	return nil, false
}

// runMIDIRouter forwards the note events of the MIDI context to the GUI,
// so key strip highlights never run on the MIDI driver callback thread.
// The audio path does not come through here; the player pulls MIDI events
// from its process context with frame accurate timing.
func runMIDIRouter(broker *Broker) {
	for {
		select {
		case <-broker.CloseMIDIRouter:
			close(broker.FinishedMIDIRouter)
			return
		case msg := <-broker.ToMIDIRouter:
			switch msg.(type) {
			case NoteEvent:
				TrySend(broker.ToGUI, msg)
			}
		}
	}
}

// handleMIDIEvent turns note events forwarded by the player into notes on
// the roll while recording is on and the song plays. A note on opens a
// held note at the event timestamp and the matching note off closes it.
func (m *Model) handleMIDIEvent(e NoteEvent) {
	if !m.recording || !m.playing {
		return
	}
	spu := m.d.Song.SamplesPerUnit(rulla.SampleRate)
	pos := float64(e.Timestamp) / spu
	pitch := int(e.Note)
	if e.On {
		m.recordingNotes[pitch] = recordingNote{start: pos, velocity: int(e.Velocity)}
		return
	}
	held, ok := m.recordingNotes[pitch]
	if !ok {
		return
	}
	delete(m.recordingNotes, pitch)
	m.insertRecordedNote(pitch, held, pos)
}

// finishRecording closes the notes still held when recording is switched
// off, ending them at the current play position.
func (m *Model) finishRecording() {
	if len(m.recordingNotes) == 0 {
		return
	}
	defer m.change(NoteChange, MinorChange)()
	for pitch, held := range m.recordingNotes {
		m.insertRecordedNote(pitch, held, m.playPosition)
	}
	clear(m.recordingNotes)
}

func (m *Model) insertRecordedNote(pitch int, held recordingNote, end float64) {
	defer m.change(NoteChange, MinorChange)()
	duration := end - held.start
	if duration < createSeedDuration {
		duration = createSeedDuration
	}
	velocity := held.velocity
	if velocity <= 0 {
		velocity = m.d.NoteVelocity
	}
	notes, err := m.d.Song.Notes.Insert(rulla.Note{
		Start:    held.start,
		Duration: duration,
		Pitch:    clampPitch(pitch),
		Velocity: velocity,
	})
	if err != nil {
		return
	}
	m.d.Song.Notes = notes
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a
// real one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                       {}
func (m NullMIDIContext) Support() MIDISupport                         { return MIDISupportNotCompiled }
