package rulla

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/encoding/charmap"
)

// smfTicksPerBeat is the metric tick resolution of written files. One beat
// of the roll maps to one quarter note.
const smfTicksPerBeat = 960

// WriteSMF encodes the song as a standard MIDI file: a tempo track carrying
// the meter and tempo, and one note track with every roll note on channel
// zero. Lyrics ride along as lyric meta events at their note starts.
func WriteSMF(song Song, w io.Writer) error {
	song = song.Normalized()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(smfTicksPerBeat)

	var meta smf.Track
	if song.Title != "" {
		meta.Add(0, smf.MetaTrackSequenceName(song.Title))
	}
	if song.Author != "" {
		meta.Add(0, smf.MetaCopyright(song.Author))
	}
	meta.Add(0, smf.MetaMeter(uint8(song.TimeSignature.Numerator), uint8(song.TimeSignature.Denominator)))
	meta.Add(0, smf.MetaTempo(float64(song.BPM)))
	meta.Close(0)
	if err := s.Add(meta); err != nil {
		return fmt.Errorf("adding tempo track failed: %v", err)
	}

	type timedMsg struct {
		tick int64
		kind int // note offs sort before lyrics before note ons at equal ticks
		msg  smf.Message
	}
	events := make([]timedMsg, 0, len(song.Notes)*2)
	for _, n := range song.Notes {
		on := unitTicks(n.Start)
		off := unitTicks(n.End())
		if off <= on {
			off = on + 1
		}
		vel := uint8(min(max(n.Velocity, 1), 127)) // velocity 0 would read back as a note end
		if n.Lyric != "" {
			events = append(events, timedMsg{on, 1, smf.MetaLyric(n.Lyric)})
		}
		events = append(events, timedMsg{on, 2, smf.Message(midi.NoteOn(0, uint8(n.Pitch), vel))})
		events = append(events, timedMsg{off, 0, smf.Message(midi.NoteOff(0, uint8(n.Pitch)))})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].kind < events[j].kind
	})

	var track smf.Track
	var prev int64
	for _, e := range events {
		track.Add(uint32(e.tick-prev), e.msg)
		prev = e.tick
	}
	track.Close(0)
	if err := s.Add(track); err != nil {
		return fmt.Errorf("adding note track failed: %v", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing SMF failed: %v", err)
	}
	return nil
}

// ReadSMF decodes a standard MIDI file into a song. All tracks and channels
// are merged onto the single roll; tempo, meter, title and author come from
// the first such meta events found. The smf package panics on some corrupt
// files, so the panic is turned back into an error here.
func ReadSMF(r io.Reader) (song Song, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("corrupt MIDI file: %v", p)
		}
	}()
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Song{}, fmt.Errorf("parsing MIDI file failed: %v", err)
	}
	song = Song{BPM: DefaultBPM, TimeSignature: TimeSignature{4, 4}}

	type openNote struct {
		tick int64
		note int // index into song.Notes
	}
	var open []openNote
	var haveTempo, haveMeter bool
	for _, track := range s.Tracks {
		var abs int64
		open = open[:0]
		for _, ev := range track {
			abs += int64(ev.Delta)
			var channel, key, velocity uint8
			var num, denom uint8
			var bpm float64
			var text string
			switch {
			case ev.Message.GetNoteStart(&channel, &key, &velocity):
				n := Note{
					ID:       NewNoteID(),
					Start:    ticksUnits(abs),
					Duration: 1, // fixed up at the note end
					Pitch:    int(key),
					Velocity: int(velocity),
				}
				song.Notes = append(song.Notes, n)
				open = append(open, openNote{tick: abs, note: len(song.Notes) - 1})
			case ev.Message.GetNoteEnd(&channel, &key):
				for i, o := range open {
					if song.Notes[o.note].Pitch == int(key) {
						song.Notes[o.note].Duration = max(ticksUnits(abs)-song.Notes[o.note].Start, 1)
						open = append(open[:i], open[i+1:]...)
						break
					}
				}
			case ev.Message.GetMetaTempo(&bpm):
				if !haveTempo && bpm > 0 {
					song.BPM = int(math.Round(bpm))
					haveTempo = true
				}
			case ev.Message.GetMetaMeter(&num, &denom):
				if !haveMeter {
					song.TimeSignature = TimeSignature{int(num), int(denom)}
					haveMeter = true
				}
			case ev.Message.GetMetaTrackName(&text):
				if song.Title == "" {
					song.Title = decodeSMFText(text)
				}
			case ev.Message.GetMetaCopyright(&text):
				if song.Author == "" {
					song.Author = decodeSMFText(text)
				}
			case ev.Message.GetMetaLyric(&text):
				// a note opened exactly at the lyric tick wins, otherwise
				// the most recently opened note gets the lyric
				idx, bestTick := -1, int64(-1)
				for _, o := range open {
					if o.tick == abs {
						idx = o.note
						break
					}
					if o.tick > bestTick {
						bestTick, idx = o.tick, o.note
					}
				}
				if idx >= 0 {
					song.Notes[idx].Lyric = decodeSMFText(text)
				}
			}
		}
		for _, o := range open { // tracks may end without closing every note
			song.Notes[o.note].Duration = max(ticksUnits(abs)-song.Notes[o.note].Start, 1)
		}
	}
	if len(song.Notes) == 0 && len(s.Tracks) == 0 {
		return Song{}, errors.New("MIDI file contains no tracks")
	}
	return song.Normalized(), nil
}

// decodeSMFText maps the text of a meta event to a valid string. Old files
// predate Unicode and carry Latin-1; anything that is not valid UTF-8 is
// reinterpreted as such.
func decodeSMFText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

func unitTicks(units float64) int64 {
	return int64(math.Round(units / PixelsPerBeat * smfTicksPerBeat))
}

func ticksUnits(ticks int64) float64 {
	return float64(ticks) / smfTicksPerBeat * PixelsPerBeat
}
