package rulla

import "io"

// NumVoices is how many simultaneously sounding notes a Synth has to
// support. Voice indices passed to Trigger and Release stay below this.
const NumVoices = 32

// SampleRate is the fixed sample rate of all audio in the program, in Hz.
const SampleRate = 44100

type (
	// AudioBuffer is a buffer of stereo audio samples. All audio in the
	// program runs at 44100 Hz.
	AudioBuffer [][2]float32

	// AudioContext is a handle to the audio playback system of the OS. Play
	// starts pulling buffers through the callback from a background thread
	// until the returned closer is closed.
	AudioContext interface {
		Play(callback func(buffer AudioBuffer) error) io.Closer
		Close() error
	}

	// Synth renders audio for up to NumVoices simultaneously sounding
	// notes. Trigger and Release take effect on the samples rendered after
	// the call, so a caller slices its buffer at event boundaries.
	Synth interface {
		Render(buffer AudioBuffer) error
		Trigger(voice int, pitch byte, velocity byte)
		Release(voice int)
	}

	// Synther constructs Synths. The level of indirection lets the player
	// swap the whole synth out at runtime.
	Synther interface {
		Name() string
		Synth() (Synth, error)
	}
)

// SamplesPerUnit converts the song tempo to the number of samples one time
// unit lasts at the given sample rate. One beat is PixelsPerBeat units.
func (s Song) SamplesPerUnit(samplerate int) float64 {
	bpm := s.BPM
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return float64(samplerate) * 60 / (float64(bpm) * PixelsPerBeat)
}
