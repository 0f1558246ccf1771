package rulla

import (
	"fmt"
	"math"
)

// Reference geometry of the roll. One beat spans PixelsPerBeat time units
// horizontally and one pitch row RowHeight units vertically; zoom scales
// these at draw time but never changes stored note values.
const (
	PixelsPerBeat = 80.0
	RowHeight     = 20.0
	NumPitches    = 128
	MaxPitch      = 127
)

type (
	// TimeSignature sets how many beats make up a measure and which note
	// value counts as a beat. Changing it redraws the grid but never
	// rewrites existing notes.
	TimeSignature struct {
		Numerator   int
		Denominator int
	}

	// Snap is the quantization grain used when placing, dragging and
	// resizing notes, and the source of the subdivision tick density. It is
	// session wide and independent of the time signature.
	Snap int
)

const (
	SnapWhole Snap = iota
	SnapHalf
	SnapQuarter
	SnapEighth
	SnapSixteenth
	SnapThirtysecond
	SnapOff
)

var snapNames = [...]string{"1/1", "1/2", "1/4", "1/8", "1/16", "1/32", "none"}

var timeSignatureNumerators = [...]int{2, 3, 4, 5, 6, 7, 9, 12}
var timeSignatureDenominators = [...]int{2, 4, 8, 16}

func (s Snap) String() string {
	if s < 0 || int(s) >= len(snapNames) {
		return snapNames[SnapQuarter]
	}
	return snapNames[s]
}

// ParseSnap maps a snap option string back to a Snap. Unrecognized strings
// fall back to the 1/4 default instead of erroring.
func ParseSnap(str string) Snap {
	for i, n := range snapNames {
		if n == str {
			return Snap(i)
		}
	}
	return SnapQuarter
}

// Subdivisions reports how many slots a beat is divided into for tick
// rendering. SnapWhole draws nothing finer than a beat. With SnapOff the
// density comes from the time signature denominator and a denominator of 8
// gets a triplet feel.
func (s Snap) Subdivisions(ts TimeSignature) int {
	switch s {
	case SnapWhole:
		return 0
	case SnapHalf:
		return 2
	case SnapQuarter:
		return 4
	case SnapEighth:
		return 8
	case SnapSixteenth:
		return 16
	case SnapThirtysecond:
		return 32
	}
	switch ts.Denominator {
	case 2:
		return 2
	case 8:
		return 3
	}
	return 4
}

// GridUnit is the quantization grain in time units: the beat divided by the
// snap subdivision count. SnapWhole snaps to whole notes. SnapOff keeps a
// fixed quarter beat grain for placement so pointer coordinates never land
// on arbitrary pixels.
func (s Snap) GridUnit() float64 {
	switch s {
	case SnapWhole:
		return 4 * PixelsPerBeat
	case SnapHalf:
		return PixelsPerBeat / 2
	case SnapQuarter:
		return PixelsPerBeat / 4
	case SnapEighth:
		return PixelsPerBeat / 8
	case SnapSixteenth:
		return PixelsPerBeat / 16
	case SnapThirtysecond:
		return PixelsPerBeat / 32
	}
	return PixelsPerBeat / 4
}

// SnapToGrid rounds x to the nearest multiple of the snap grid unit. The
// result is a fixed point of the function, so quantizing twice never moves a
// value further.
func (s Snap) SnapToGrid(x float64) float64 {
	unit := s.GridUnit()
	return math.Round(x/unit) * unit
}

// SubdivisionOffsets lists the tick offsets inside one beat, excluding the
// beat line itself so the renderer never draws a subdivision on top of a
// beat or measure line.
func (s Snap) SubdivisionOffsets(ts TimeSignature) []float64 {
	n := s.Subdivisions(ts)
	if n < 2 {
		return nil
	}
	offs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		offs = append(offs, float64(i)*PixelsPerBeat/float64(n))
	}
	return offs
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

func (ts TimeSignature) MeasureWidth() float64 {
	return float64(ts.Numerator) * PixelsPerBeat
}

func (ts TimeSignature) Valid() bool {
	return containsInt(timeSignatureNumerators[:], ts.Numerator) &&
		containsInt(timeSignatureDenominators[:], ts.Denominator)
}

// Clamped snaps both fields to the nearest allowed option, so settings
// coming from outside the enumerated domains degrade instead of erroring.
func (ts TimeSignature) Clamped() TimeSignature {
	return TimeSignature{
		Numerator:   nearestInt(timeSignatureNumerators[:], ts.Numerator),
		Denominator: nearestInt(timeSignatureDenominators[:], ts.Denominator),
	}
}

// TimeSignatureNumerators returns the allowed beats per measure options in
// menu order.
func TimeSignatureNumerators() []int {
	return append([]int(nil), timeSignatureNumerators[:]...)
}

// TimeSignatureDenominators returns the allowed beat unit options in menu
// order.
func TimeSignatureDenominators() []int {
	return append([]int(nil), timeSignatureDenominators[:]...)
}

// PitchRow maps a pitch to its row index counted from the top of the roll;
// pitch 127 is row 0.
func PitchRow(pitch int) int {
	return MaxPitch - pitch
}

// RowPitch is the inverse of PitchRow, clamped into the valid pitch range.
func RowPitch(row int) int {
	return min(max(MaxPitch-row, 0), MaxPitch)
}

// RowTop gives the y coordinate of the top edge of the row of a pitch.
func RowTop(pitch int) float64 {
	return float64(PitchRow(pitch)) * RowHeight
}

// YPitch maps a y coordinate to the pitch whose row contains it.
func YPitch(y float64) int {
	return RowPitch(int(math.Floor(y / RowHeight)))
}

// IsBlackKey reports whether the pitch class of a pitch is one of the five
// raised keys of an octave.
func IsBlackKey(pitch int) bool {
	switch ((pitch % 12) + 12) % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func nearestInt(options []int, value int) int {
	best := options[0]
	for _, v := range options[1:] {
		if abs(v-value) < abs(best-value) {
			best = v
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
