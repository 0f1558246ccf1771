package rulla_test

import (
	"bytes"
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/synth"
)

func oneNoteSong() rulla.Song {
	return rulla.Song{
		BPM:           100,
		TimeSignature: rulla.TimeSignature{Numerator: 4, Denominator: 4},
		Notes:         rulla.NoteList{{Start: 0, Duration: 80, Pitch: 60, Velocity: 100}},
	}
}

func TestPlayLength(t *testing.T) {
	buffer, err := rulla.Play(synth.Sine(), oneNoteSong(), nil)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	// at 100 bpm a beat is 26460 samples; the render keeps going for half a
	// second past the note so the release can ring out
	want := 26460 + rulla.SampleRate/2
	if len(buffer) != want {
		t.Errorf("len = %d, want %d", len(buffer), want)
	}
}

func TestPlayIsAudibleAndEndsSilent(t *testing.T) {
	buffer, err := rulla.Play(synth.Sine(), oneNoteSong(), nil)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	audible := false
	for _, frame := range buffer {
		if frame[0] != 0 || frame[1] != 0 {
			audible = true
			break
		}
	}
	if !audible {
		t.Error("rendered song is completely silent")
	}
	for i, frame := range buffer[len(buffer)-1000:] {
		if frame[0] != 0 || frame[1] != 0 {
			t.Errorf("tail frame %d is not silent after the release has run out", i)
			break
		}
	}
}

func TestPlayProgress(t *testing.T) {
	var values []float32
	_, err := rulla.Play(synth.Saw(), oneNoteSong(), func(p float32) {
		values = append(values, p)
	})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(values) == 0 {
		t.Fatal("progress was never reported")
	}
	prev := float32(0)
	for i, v := range values {
		if v < prev {
			t.Fatalf("progress went backwards at %d: %v after %v", i, v, prev)
		}
		prev = v
	}
	if last := values[len(values)-1]; last != 1 {
		t.Errorf("last progress = %v, want 1", last)
	}
}

func TestPlayEmptySong(t *testing.T) {
	song := rulla.Song{BPM: 120}
	if _, err := rulla.Play(synth.Sine(), song, nil); err == nil {
		t.Error("Play of a song with no notes did not fail")
	}
	// notes a normalize drops do not count either
	song.Notes = rulla.NoteList{{Start: 0, Duration: 0, Pitch: 60, Velocity: 100}}
	if _, err := rulla.Play(synth.Sine(), song, nil); err == nil {
		t.Error("Play of a song with only a zero length note did not fail")
	}
}

func TestWavHeaders(t *testing.T) {
	buffer := make(rulla.AudioBuffer, 123)

	pcm, err := rulla.Wav(buffer, true)
	if err != nil {
		t.Fatalf("Wav pcm16 failed: %v", err)
	}
	if !bytes.HasPrefix(pcm, []byte("RIFF")) || string(pcm[8:12]) != "WAVE" {
		t.Error("pcm16 wav is missing the RIFF/WAVE header")
	}
	if want := 44 + 4*len(buffer); len(pcm) != want {
		t.Errorf("pcm16 wav len = %d, want %d", len(pcm), want)
	}

	flt, err := rulla.Wav(buffer, false)
	if err != nil {
		t.Fatalf("Wav float failed: %v", err)
	}
	if want := 58 + 8*len(buffer); len(flt) != want {
		t.Errorf("float wav len = %d, want %d", len(flt), want)
	}
}

func TestRawLength(t *testing.T) {
	buffer := make(rulla.AudioBuffer, 10)
	raw, err := rulla.Raw(buffer, true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(raw) != 40 {
		t.Errorf("pcm16 raw len = %d, want 40", len(raw))
	}
}
