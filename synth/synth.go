package synth

import (
	"math"

	"github.com/nuottila/rulla"
)

type (
	// GoSynth is a pure Go synth with one oscillator and an ADSR envelope
	// per voice. It is not much of an instrument, but it needs no native
	// code or assets, so the editor always has something to play notes
	// with.
	GoSynth struct {
		wave   waveFunc
		voices [rulla.NumVoices]voice
	}

	// Synther constructs GoSynths with a fixed waveform.
	Synther struct {
		name string
		wave waveFunc
	}

	// waveFunc returns the sample for a phase in [0, 1).
	waveFunc func(phase float64) float32

	voice struct {
		pitch    byte
		gain     float32
		phase    float64
		envState envState
		envLevel float32
	}

	envState int
)

const (
	envStateAttack envState = iota
	envStateDecay
	envStateSustain
	envStateRelease
	envStateOff
)

const (
	attackTime   = 0.005
	decayTime    = 0.08
	sustainLevel = 0.7
	releaseTime  = 0.2

	attackDelta  = 1 / (attackTime * rulla.SampleRate)
	decayDelta   = (1 - sustainLevel) / (decayTime * rulla.SampleRate)
	releaseDelta = sustainLevel / (releaseTime * rulla.SampleRate)

	// headroom so a handful of simultaneous voices does not clip
	masterGain = 0.25
)

func Sine() Synther     { return Synther{name: "Sine", wave: sineWave} }
func Saw() Synther      { return Synther{name: "Saw", wave: sawWave} }
func Triangle() Synther { return Synther{name: "Triangle", wave: triangleWave} }

func (s Synther) Name() string { return s.name }

func (s Synther) Synth() (rulla.Synth, error) {
	ret := &GoSynth{wave: s.wave}
	for i := range ret.voices {
		ret.voices[i].envState = envStateOff
	}
	return ret, nil
}

func (s *GoSynth) Trigger(voiceIndex int, pitch byte, velocity byte) {
	if voiceIndex < 0 || voiceIndex >= len(s.voices) {
		return
	}
	s.voices[voiceIndex] = voice{
		pitch:    pitch,
		gain:     float32(velocity) / 127,
		envState: envStateAttack,
	}
}

func (s *GoSynth) Release(voiceIndex int) {
	if voiceIndex < 0 || voiceIndex >= len(s.voices) {
		return
	}
	if s.voices[voiceIndex].envState != envStateOff {
		s.voices[voiceIndex].envState = envStateRelease
	}
}

func (s *GoSynth) Render(buffer rulla.AudioBuffer) error {
	for i := range buffer {
		buffer[i] = [2]float32{}
	}
	for vi := range s.voices {
		v := &s.voices[vi]
		if v.envState == envStateOff {
			continue
		}
		delta := noteFreq(v.pitch) / rulla.SampleRate
		for i := range buffer {
			if !v.advanceEnvelope() {
				break
			}
			sample := s.wave(v.phase) * v.envLevel * v.gain * masterGain
			v.phase += delta
			if v.phase >= 1 {
				v.phase -= 1
			}
			buffer[i][0] += sample
			buffer[i][1] += sample
		}
	}
	return nil
}

func (v *voice) advanceEnvelope() bool {
	switch v.envState {
	case envStateAttack:
		v.envLevel += attackDelta
		if v.envLevel >= 1 {
			v.envLevel = 1
			v.envState = envStateDecay
		}
	case envStateDecay:
		v.envLevel -= decayDelta
		if v.envLevel <= sustainLevel {
			v.envLevel = sustainLevel
			v.envState = envStateSustain
		}
	case envStateRelease:
		v.envLevel -= releaseDelta
		if v.envLevel <= 0 {
			v.envLevel = 0
			v.envState = envStateOff
			return false
		}
	case envStateOff:
		return false
	}
	return true
}

func noteFreq(pitch byte) float64 {
	return 440 * math.Pow(2, (float64(pitch)-69)/12)
}

func sineWave(phase float64) float32 {
	return float32(math.Sin(2 * math.Pi * phase))
}

func sawWave(phase float64) float32 {
	return float32(2*phase - 1)
}

func triangleWave(phase float64) float32 {
	return float32(4*math.Abs(phase-0.5) - 1)
}
