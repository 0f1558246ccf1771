package editor

import (
	"fmt"
	"strconv"

	"github.com/nuottila/rulla"
)

// Every tweakable setting is exposed as an Int, Bool or String view, so
// the GUI widgets and the key bindings stay generic.

// BPM returns an Int for the song tempo.
func (m *Model) BPM() Int { return MakeInt((*bpmInt)(m)) }

type bpmInt Model

func (v *bpmInt) Value() int            { return v.d.Song.BPM }
func (v *bpmInt) Range() RangeInclusive { return RangeInclusive{rulla.MinBPM, rulla.MaxBPM} }
func (v *bpmInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SongChange, MinorChange)()
	m.d.Song.BPM = value
	return true
}

// Numerator returns an Int stepping through the allowed beats per measure
// options. The value is an index into the option list.
func (m *Model) Numerator() Int { return MakeInt((*numeratorInt)(m)) }

type numeratorInt Model

func (v *numeratorInt) Value() int {
	for i, n := range rulla.TimeSignatureNumerators() {
		if n == v.d.Song.TimeSignature.Numerator {
			return i
		}
	}
	return 0
}

func (v *numeratorInt) Range() RangeInclusive {
	return RangeInclusive{0, len(rulla.TimeSignatureNumerators()) - 1}
}

func (v *numeratorInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SongChange, MinorChange)()
	m.d.Song.TimeSignature.Numerator = rulla.TimeSignatureNumerators()[value]
	return true
}

func (v *numeratorInt) StringOf(value int) string {
	opts := rulla.TimeSignatureNumerators()
	if value < 0 || value >= len(opts) {
		return ""
	}
	return strconv.Itoa(opts[value])
}

// Denominator returns an Int stepping through the allowed beat unit
// options. The value is an index into the option list.
func (m *Model) Denominator() Int { return MakeInt((*denominatorInt)(m)) }

type denominatorInt Model

func (v *denominatorInt) Value() int {
	for i, n := range rulla.TimeSignatureDenominators() {
		if n == v.d.Song.TimeSignature.Denominator {
			return i
		}
	}
	return 0
}

func (v *denominatorInt) Range() RangeInclusive {
	return RangeInclusive{0, len(rulla.TimeSignatureDenominators()) - 1}
}

func (v *denominatorInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SongChange, MinorChange)()
	m.d.Song.TimeSignature.Denominator = rulla.TimeSignatureDenominators()[value]
	return true
}

func (v *denominatorInt) StringOf(value int) string {
	opts := rulla.TimeSignatureDenominators()
	if value < 0 || value >= len(opts) {
		return ""
	}
	return strconv.Itoa(opts[value])
}

// Snap returns an Int for the quantization grain, from whole notes down
// to 1/32 and finally off.
func (m *Model) Snap() Int { return MakeInt((*snapInt)(m)) }

type snapInt Model

func (v *snapInt) Value() int { return int(v.d.Snap) }

func (v *snapInt) Range() RangeInclusive {
	return RangeInclusive{int(rulla.SnapWhole), int(rulla.SnapOff)}
}

func (v *snapInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.Snap = rulla.Snap(value)
	return true
}

func (v *snapInt) StringOf(value int) string { return rulla.Snap(value).String() }

// The edit mode views act as radio buttons: setting one true switches the
// mode, setting false is a no-op.

func (m *Model) SelectMode() Bool { return MakeBool((*selectModeBool)(m)) }

type selectModeBool Model

func (v *selectModeBool) Value() bool { return v.d.Mode == ModeSelect }
func (v *selectModeBool) SetValue(val bool) {
	if !val {
		return
	}
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.Mode = ModeSelect
}

func (m *Model) DrawMode() Bool { return MakeBool((*drawModeBool)(m)) }

type drawModeBool Model

func (v *drawModeBool) Value() bool { return v.d.Mode == ModeDraw }
func (v *drawModeBool) SetValue(val bool) {
	if !val {
		return
	}
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.Mode = ModeDraw
}

func (m *Model) EraseMode() Bool { return MakeBool((*eraseModeBool)(m)) }

type eraseModeBool Model

func (v *eraseModeBool) Value() bool { return v.d.Mode == ModeErase }
func (v *eraseModeBool) SetValue(val bool) {
	if !val {
		return
	}
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.Mode = ModeErase
}

// NoteVelocity returns an Int for the velocity given to notes drawn on
// the roll.
func (m *Model) NoteVelocity() Int { return MakeInt((*noteVelocityInt)(m)) }

type noteVelocityInt Model

func (v *noteVelocityInt) Value() int            { return v.d.NoteVelocity }
func (v *noteVelocityInt) Range() RangeInclusive { return RangeInclusive{1, 127} }
func (v *noteVelocityInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.NoteVelocity = value
	return true
}

// Octave returns an Int for the base octave of the jamming keys.
func (m *Model) Octave() Int { return MakeInt((*octaveInt)(m)) }

type octaveInt Model

func (v *octaveInt) Value() int            { return v.d.Octave }
func (v *octaveInt) Range() RangeInclusive { return RangeInclusive{0, 9} }
func (v *octaveInt) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change(SettingChange, MinorChange)()
	m.d.Octave = value
	return true
}

// Zoom returns an Int over the zoom levels, anchored at the middle of the
// viewport when set directly.
func (m *Model) Zoom() Int { return MakeInt((*zoomInt)(m)) }

type zoomInt Model

func (v *zoomInt) Value() int            { return v.viewport.Zoom }
func (v *zoomInt) Range() RangeInclusive { return RangeInclusive{0, MaxZoomLevel()} }
func (v *zoomInt) SetValue(value int) bool {
	m := (*Model)(v)
	m.viewport = m.viewport.Zoomed(value, m.viewport.Width/2, m.viewport.Height/2, m.derived.contentWidth)
	return true
}
func (v *zoomInt) StringOf(value int) string {
	if value < 0 || value >= len(zoomFactors) {
		return ""
	}
	return fmt.Sprintf("%g%%", zoomFactors[value]*100)
}

func (m *Model) Title() String { return MakeString((*titleString)(m)) }

type titleString Model

func (v *titleString) Value() string { return v.d.Song.Title }
func (v *titleString) SetValue(s string) bool {
	m := (*Model)(v)
	defer m.change(SongChange, MinorChange)()
	m.d.Song.Title = s
	return true
}

func (m *Model) Author() String { return MakeString((*authorString)(m)) }

type authorString Model

func (v *authorString) Value() string { return v.d.Song.Author }
func (v *authorString) SetValue(s string) bool {
	m := (*Model)(v)
	defer m.change(SongChange, MinorChange)()
	m.d.Song.Author = s
	return true
}

// FilePath returns a String for the path of the song file, shown in the
// window title.
func (m *Model) FilePath() String { return MakeString((*filePathString)(m)) }

type filePathString Model

func (v *filePathString) Value() string { return v.d.FilePath }
func (v *filePathString) SetValue(s string) bool {
	v.d.FilePath = s
	return true
}
