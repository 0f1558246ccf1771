package synth_test

import (
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/synth"
)

func newSynth(t *testing.T, synther rulla.Synther) rulla.Synth {
	s, err := synther.Synth()
	if err != nil {
		t.Fatalf("Synth failed: %v", err)
	}
	return s
}

func render(t *testing.T, s rulla.Synth, samples int) rulla.AudioBuffer {
	buf := make(rulla.AudioBuffer, samples)
	if err := s.Render(buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf
}

func peak(buf rulla.AudioBuffer) float32 {
	var ret float32
	for _, frame := range buf {
		for _, sample := range frame {
			if sample < 0 {
				sample = -sample
			}
			if sample > ret {
				ret = sample
			}
		}
	}
	return ret
}

func TestSilentBeforeTrigger(t *testing.T) {
	s := newSynth(t, synth.Sine())
	if p := peak(render(t, s, 2048)); p != 0 {
		t.Errorf("peak = %v before any trigger, want silence", p)
	}
}

func TestTriggerProducesSound(t *testing.T) {
	for _, synther := range []rulla.Synther{synth.Sine(), synth.Saw(), synth.Triangle()} {
		s := newSynth(t, synther)
		s.Trigger(0, 69, 127)
		buf := render(t, s, 2048)
		if p := peak(buf); p == 0 {
			t.Errorf("%s: triggered voice renders silence", synther.Name())
		} else if p > 0.25+1e-6 {
			t.Errorf("%s: peak = %v, want at most the master gain", synther.Name(), p)
		}
		for i, frame := range buf {
			if frame[0] != frame[1] {
				t.Errorf("%s: sample %d is not the same on both channels", synther.Name(), i)
				break
			}
		}
	}
}

func TestVelocityScalesGain(t *testing.T) {
	loud := newSynth(t, synth.Sine())
	loud.Trigger(0, 69, 127)
	quiet := newSynth(t, synth.Sine())
	quiet.Trigger(0, 69, 32)
	pl, pq := peak(render(t, loud, 4096)), peak(render(t, quiet, 4096))
	if pl <= pq {
		t.Errorf("velocity 127 peak %v is not above velocity 32 peak %v", pl, pq)
	}
}

func TestReleaseFadesToSilence(t *testing.T) {
	s := newSynth(t, synth.Sine())
	s.Trigger(0, 60, 100)
	render(t, s, 8192) // past the attack and the decay
	s.Release(0)
	// the release lasts 0.2 s, under 16384 samples at 44100 Hz
	render(t, s, 16384)
	if p := peak(render(t, s, 2048)); p != 0 {
		t.Errorf("peak = %v after the release has run out, want silence", p)
	}
}

func TestVoiceIndexBounds(t *testing.T) {
	s := newSynth(t, synth.Saw())
	s.Trigger(-1, 60, 100)
	s.Trigger(rulla.NumVoices, 60, 100)
	s.Release(-1)
	s.Release(rulla.NumVoices)
	if p := peak(render(t, s, 1024)); p != 0 {
		t.Errorf("peak = %v, out of range voice indices should do nothing", p)
	}
}

func TestMultipleVoicesMix(t *testing.T) {
	single := newSynth(t, synth.Triangle())
	single.Trigger(0, 60, 100)
	chord := newSynth(t, synth.Triangle())
	chord.Trigger(0, 60, 100)
	chord.Trigger(1, 64, 100)
	chord.Trigger(2, 67, 100)
	ps, pc := peak(render(t, single, 8192)), peak(render(t, chord, 8192))
	if pc <= ps {
		t.Errorf("chord peak %v is not above single note peak %v", pc, ps)
	}
	if pc > 1 {
		t.Errorf("chord peak %v clips", pc)
	}
}

func TestSyntherNames(t *testing.T) {
	names := []string{synth.Sine().Name(), synth.Saw().Name(), synth.Triangle().Name()}
	want := []string{"Sine", "Saw", "Triangle"}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("Name = %q, want %q", n, want[i])
		}
	}
}
