package editor

import (
	"errors"
	"math"

	"github.com/nuottila/rulla"
	"github.com/viterin/vek/vek32"
)

type (
	Decibel float64

	// Volume is the measured level of the master output, in decibels
	// relative to full scale (0 dB = signal level of +-1).
	Volume struct {
		Average [2]Decibel
		Peak    [2]Decibel
	}

	// VolumeAnalyzer measures the volume of the played AudioBuffers. The
	// average level is smoothed with the Attack time constant when rising
	// and Release when falling; the peak level rises instantly and falls
	// with PeakRelease. Min and Max are hard limits in decibels, keeping
	// silence from becoming negative infinity.
	VolumeAnalyzer struct {
		Volume      Volume
		Attack      float64
		Release     float64
		PeakRelease float64
		Min         float64
		Max         float64

		tmp  []float32
		tmp2 []float32
	}
)

var errVolumeNaN = errors.New("NaN detected in master output")

func NewVolumeAnalyzer() VolumeAnalyzer {
	v := VolumeAnalyzer{
		Attack:      0.3,
		Release:     0.3,
		PeakRelease: 1.5,
		Min:         -100,
		Max:         20,
	}
	for chn := 0; chn < 2; chn++ {
		v.Volume.Average[chn] = Decibel(v.Min)
		v.Volume.Peak[chn] = Decibel(v.Min)
	}
	return v
}

// Update analyzes the given buffer and updates the Volume field. One
// power measurement is taken per channel per buffer, which at typical
// buffer sizes is far below the display frame rate.
func (v *VolumeAnalyzer) Update(buffer rulla.AudioBuffer) (err error) {
	if len(buffer) == 0 {
		return nil
	}
	// from https://en.wikipedia.org/wiki/Exponential_smoothing; the alphas
	// cover the whole buffer as the measurement spans it
	n := float64(len(buffer))
	alphaAttack := 1 - math.Exp(-n/(v.Attack*rulla.SampleRate))
	alphaRelease := 1 - math.Exp(-n/(v.Release*rulla.SampleRate))
	alphaPeak := 1 - math.Exp(-n/(v.PeakRelease*rulla.SampleRate))
	if len(v.tmp) < len(buffer) {
		v.tmp = make([]float32, len(buffer))
		v.tmp2 = make([]float32, len(buffer))
	}
	for chn := 0; chn < 2; chn++ {
		for i := 0; i < len(buffer); i++ {
			v.tmp[i] = buffer[i][chn]
		}
		squared := vek32.Mul_Into(v.tmp2[:len(buffer)], v.tmp[:len(buffer)], v.tmp[:len(buffer)])
		power := float64(vek32.Mean(squared))
		peak := float64(vek32.Max(squared))
		if math.IsNaN(power) {
			if err == nil {
				err = errVolumeNaN
			}
			continue
		}
		avg := v.clamp(10 * math.Log10(power))
		a := alphaAttack
		if avg < float64(v.Volume.Average[chn]) {
			a = alphaRelease
		}
		v.Volume.Average[chn] += Decibel((avg - float64(v.Volume.Average[chn])) * a)
		// 10*log10 of the squared peak is 20*log10 of the peak
		pk := v.clamp(10 * math.Log10(peak))
		if pk >= float64(v.Volume.Peak[chn]) {
			v.Volume.Peak[chn] = Decibel(pk)
		} else {
			v.Volume.Peak[chn] += Decibel((pk - float64(v.Volume.Peak[chn])) * alphaPeak)
		}
	}
	return err
}

func (v *VolumeAnalyzer) clamp(dB float64) float64 {
	if dB < v.Min || math.IsNaN(dB) {
		return v.Min
	}
	if dB > v.Max {
		return v.Max
	}
	return dB
}
