package rulla_test

import (
	"math"
	"testing"

	"github.com/nuottila/rulla"
)

var allSnaps = []rulla.Snap{
	rulla.SnapWhole, rulla.SnapHalf, rulla.SnapQuarter,
	rulla.SnapEighth, rulla.SnapSixteenth, rulla.SnapThirtysecond, rulla.SnapOff,
}

func TestSnapToGridIdempotent(t *testing.T) {
	for _, s := range allSnaps {
		for _, x := range []float64{-1000, -13.7, -1, 0, 0.49, 3, 7.5, 39.9, 40, 79.99, 80, 123.456, 1e6} {
			once := s.SnapToGrid(x)
			twice := s.SnapToGrid(once)
			if once != twice {
				t.Errorf("snap %v: SnapToGrid(SnapToGrid(%v)) = %v, want %v", s, x, twice, once)
			}
			if unit := s.GridUnit(); math.Mod(once, unit) != 0 {
				t.Errorf("snap %v: SnapToGrid(%v) = %v is not a multiple of %v", s, x, once, unit)
			}
		}
	}
}

func TestQuarterSnapGridUnit(t *testing.T) {
	if got := rulla.SnapQuarter.GridUnit(); got != rulla.PixelsPerBeat/4 {
		t.Fatalf("quarter snap grid unit = %v, want %v", got, rulla.PixelsPerBeat/4)
	}
	if got := rulla.SnapQuarter.SnapToGrid(3); got != 0 {
		t.Errorf("SnapToGrid(3) = %v, want 0", got)
	}
	if got := rulla.SnapQuarter.SnapToGrid(80 + rulla.PixelsPerBeat/4); got != 100 {
		t.Errorf("SnapToGrid(100) = %v, want 100", got)
	}
}

func TestSubdivisionOffsetsQuarterIn44(t *testing.T) {
	ts := rulla.TimeSignature{Numerator: 4, Denominator: 4}
	offs := rulla.SnapQuarter.SubdivisionOffsets(ts)
	want := []float64{20, 40, 60}
	if len(offs) != len(want) {
		t.Fatalf("offsets = %v, want %v", offs, want)
	}
	for i, o := range offs {
		if o != want[i] {
			t.Fatalf("offsets = %v, want %v", offs, want)
		}
		if math.Mod(o, rulla.PixelsPerBeat) == 0 {
			t.Errorf("offset %v coincides with a beat line", o)
		}
	}
	for i := 1; i < len(offs); i++ {
		if d := offs[i] - offs[i-1]; d != rulla.PixelsPerBeat/4 {
			t.Errorf("spacing %v, want %v", d, rulla.PixelsPerBeat/4)
		}
	}
}

func TestSubdivisionsSnapOffFallback(t *testing.T) {
	for _, c := range []struct {
		denominator, want int
	}{
		{2, 2}, {4, 4}, {8, 3}, {16, 4},
	} {
		ts := rulla.TimeSignature{Numerator: 4, Denominator: c.denominator}
		if got := rulla.SnapOff.Subdivisions(ts); got != c.want {
			t.Errorf("denominator %d: subdivisions = %d, want %d", c.denominator, got, c.want)
		}
	}
}

func TestSubdivisionsIgnoreTimeSignatureWhenSnapped(t *testing.T) {
	for _, denominator := range []int{2, 4, 8, 16} {
		ts := rulla.TimeSignature{Numerator: 3, Denominator: denominator}
		if got := rulla.SnapEighth.Subdivisions(ts); got != 8 {
			t.Errorf("denominator %d: subdivisions = %d, want 8", denominator, got)
		}
	}
}

func TestSnapWholeDrawsNoSubdivisions(t *testing.T) {
	ts := rulla.TimeSignature{Numerator: 4, Denominator: 4}
	if offs := rulla.SnapWhole.SubdivisionOffsets(ts); offs != nil {
		t.Fatalf("whole note snap should have no subdivision ticks, got %v", offs)
	}
	if got := rulla.SnapWhole.GridUnit(); got != 4*rulla.PixelsPerBeat {
		t.Fatalf("whole note grid unit = %v, want %v", got, 4*rulla.PixelsPerBeat)
	}
}

func TestParseSnap(t *testing.T) {
	for _, s := range allSnaps {
		if got := rulla.ParseSnap(s.String()); got != s {
			t.Errorf("ParseSnap(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got := rulla.ParseSnap("1/13"); got != rulla.SnapQuarter {
		t.Errorf("unrecognized snap must fall back to 1/4, got %v", got)
	}
	if got := rulla.ParseSnap(""); got != rulla.SnapQuarter {
		t.Errorf("empty snap must fall back to 1/4, got %v", got)
	}
}

func TestPitchRowMapping(t *testing.T) {
	if rulla.PitchRow(rulla.MaxPitch) != 0 || rulla.PitchRow(0) != rulla.MaxPitch {
		t.Fatalf("pitch 127 must be the top row and pitch 0 the bottom row")
	}
	for _, pitch := range []int{0, 1, 59, 60, 127} {
		y := rulla.RowTop(pitch) + rulla.RowHeight/2
		if got := rulla.YPitch(y); got != pitch {
			t.Errorf("YPitch(RowTop(%d)+half) = %d", pitch, got)
		}
	}
	if got := rulla.YPitch(-50); got != rulla.MaxPitch {
		t.Errorf("y above the roll must clamp to pitch 127, got %d", got)
	}
	if got := rulla.YPitch(1e6); got != 0 {
		t.Errorf("y below the roll must clamp to pitch 0, got %d", got)
	}
}

func TestIsBlackKey(t *testing.T) {
	blacks := map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}
	for pitch := 0; pitch <= rulla.MaxPitch; pitch++ {
		if got := rulla.IsBlackKey(pitch); got != blacks[pitch%12] {
			t.Errorf("IsBlackKey(%d) = %v", pitch, got)
		}
	}
}

func TestTimeSignatureClamped(t *testing.T) {
	got := rulla.TimeSignature{Numerator: 13, Denominator: 5}.Clamped()
	if got != (rulla.TimeSignature{Numerator: 12, Denominator: 4}) {
		t.Errorf("Clamped() = %v, want 12/4", got)
	}
	got = rulla.TimeSignature{}.Clamped()
	if !got.Valid() {
		t.Errorf("Clamped() of the zero value must be valid, got %v", got)
	}
	ok := rulla.TimeSignature{Numerator: 4, Denominator: 4}
	if ok.Clamped() != ok {
		t.Errorf("valid signature must clamp to itself")
	}
}

func TestMeasureWidth(t *testing.T) {
	ts := rulla.TimeSignature{Numerator: 3, Denominator: 4}
	if got := ts.MeasureWidth(); got != 3*rulla.PixelsPerBeat {
		t.Errorf("MeasureWidth = %v, want %v", got, 3*rulla.PixelsPerBeat)
	}
}
