package editor

import (
	"sync"
	"time"

	"github.com/nuottila/rulla"
)

type (
	// Broker is the centralized message hub between the Model, the Player
	// and the GUI. Everyone sends messages through it instead of calling
	// each other directly, so the Model receives all its mutations on one
	// goroutine even when they originate from the audio thread or a MIDI
	// callback. All channels are buffered and sends go through TrySend, so
	// a slow receiver drops messages instead of blocking the sender; the
	// audio thread in particular may never block.
	Broker struct {
		ToModel      chan MsgToModel
		ToPlayer     chan any
		ToGUI        chan any
		ToMIDIRouter chan any

		CloseMIDIRouter    chan struct{}
		FinishedMIDIRouter chan struct{}
		CloseGUI           chan struct{}
		FinishedGUI        chan struct{}

		bufferPool sync.Pool
	}

	// MsgToModel is a message to the model. If the Data field is a func(),
	// the model executes it on its own goroutine; this is how the GUI runs
	// file dialog continuations safely.
	MsgToModel struct {
		HasPanicPosLevels bool // true if the Panic, SongPosition and VoiceLevels fields are valid
		Panic             bool
		SongPosition      float64
		VoiceLevels       [rulla.NumVoices]float32

		Data any
	}

	// MsgToGUI is a message to the GUI; the model asks the GUI to bring a
	// position of the roll into view.
	MsgToGUI struct {
		Kind     GUIMessageKind
		Position float64
	}

	GUIMessageKind int

	// Messages to the player are sent as bare typed values through the
	// ToPlayer channel.
	StartPlayMsg struct{ Position float64 }
	IsPlayingMsg struct{ Playing bool }
	PanicMsg     struct{ Panic bool }
	RecordingMsg struct{ Recording bool }
	LoopMsg      struct{ Loop bool }
	SeekMsg      struct{ Position float64 }
)

const (
	GUIMessageCenterOnPosition GUIMessageKind = iota
	GUIMessageEnsureVisible
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:            make(chan MsgToModel, 1024),
		ToPlayer:           make(chan any, 1024),
		ToGUI:              make(chan any, 1024),
		ToMIDIRouter:       make(chan any, 1024),
		CloseMIDIRouter:    make(chan struct{}),
		FinishedMIDIRouter: make(chan struct{}),
		CloseGUI:           make(chan struct{}),
		FinishedGUI:        make(chan struct{}),
		bufferPool: sync.Pool{
			New: func() any { return make(rulla.AudioBuffer, 0, 2048) },
		},
	}
}

// GetAudioBuffer returns an empty audio buffer from the pool. Borrowed
// buffers travel from the player to the model inside MsgToModel and come
// back through PutAudioBuffer; if a send fails, the sender has to return
// the buffer itself or it leaks from the pool.
func (b *Broker) GetAudioBuffer() rulla.AudioBuffer {
	return b.bufferPool.Get().(rulla.AudioBuffer)
}

// PutAudioBuffer returns an audio buffer to the pool.
func (b *Broker) PutAudioBuffer(buf rulla.AudioBuffer) {
	if cap(buf) == 0 {
		return
	}
	b.bufferPool.Put(buf[:0])
}

// TrySend sends a value to a channel, returning false if the channel is
// full, instead of ever blocking.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive receives a value from a channel, giving up after the
// timeout.
func TimeoutReceive[T any](c <-chan T, timeout time.Duration) (v T, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case v, ok = <-c:
		return v, ok
	case <-timer.C:
		return v, false
	}
}
