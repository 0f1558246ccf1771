package rulla

import "fmt"

// noteNames are the twelve pitch class names in the tracker tradition,
// naturals carrying a dash so every name is two characters wide.
var noteNames = [...]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// PitchName formats a pitch as its class name and octave. Octave numbering
// starts at zero for pitch zero, so middle C (60) is C-5.
func PitchName(pitch int) string {
	pitch = min(max(pitch, 0), MaxPitch)
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12)
}

// IsNatural reports whether the pitch class has its own white key. The
// complement of IsBlackKey, for callers that read better this way around.
func IsNatural(pitch int) bool {
	return !IsBlackKey(pitch)
}
