// Package oto wires audio playback to the OS through the oto library.
package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"

	"github.com/nuottila/rulla"
)

type (
	OtoContext oto.Context

	// callbackReader adapts the pull style io.Reader the oto player wants
	// to the push style callback the rest of the program uses.
	callbackReader struct {
		callback func(buf rulla.AudioBuffer) error
		floatBuf rulla.AudioBuffer
	}
)

const otoBufferSize = 8192 // bytes; 1024 stereo frames, roughly 23 ms

// NewContext creates and initializes a new OtoContext, waiting until the
// audio device is ready.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   rulla.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return (*OtoContext)(context), nil
}

// Play starts pulling audio through the callback from the audio thread.
// Closing the returned closer stops the playback.
func (c *OtoContext) Play(callback func(buf rulla.AudioBuffer) error) io.Closer {
	player := (*oto.Context)(c).NewPlayer(&callbackReader{callback: callback})
	player.SetBufferSize(otoBufferSize)
	player.Play()
	return player
}

// Close suspends the audio device. oto contexts cannot be closed outright,
// but suspending stops the audio thread.
func (c *OtoContext) Close() error {
	if err := (*oto.Context)(c).Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (r *callbackReader) Read(b []byte) (int, error) {
	if len(b)%bytesPerFrame != 0 {
		return 0, fmt.Errorf("oto: Read buffer length %v is not divisible by %v", len(b), bytesPerFrame)
	}
	frames := len(b) / bytesPerFrame
	if cap(r.floatBuf) < frames {
		r.floatBuf = make(rulla.AudioBuffer, frames)
	}
	if err := r.callback(r.floatBuf[:frames]); err != nil {
		return 0, err
	}
	floatBufferToBytes(r.floatBuf[:frames], b)
	return frames * bytesPerFrame, nil
}
