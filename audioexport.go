package rulla

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const renderTail = SampleRate / 2 // keep rendering past the last note so releases ring out

// Play renders the whole song offline with a synth made by the synther,
// returning the audio from the start of the song to half a second past the
// end of its last note. The progress callback, if not nil, gets called with
// values from 0 to 1 as the render advances.
func Play(synther Synther, song Song, progress func(float32)) (AudioBuffer, error) {
	song = song.Normalized()
	synth, err := synther.Synth()
	if err != nil {
		return nil, fmt.Errorf("could not create synth: %w", err)
	}
	samplesPerUnit := song.SamplesPerUnit(SampleRate)
	type renderEvent struct {
		frame int
		on    bool
		note  int
	}
	events := make([]renderEvent, 0, len(song.Notes)*2)
	for i, n := range song.Notes {
		start := int(math.Round(n.Start * samplesPerUnit))
		end := int(math.Round(n.End() * samplesPerUnit))
		if end <= start {
			continue
		}
		events = append(events, renderEvent{frame: start, on: true, note: i})
		events = append(events, renderEvent{frame: end, note: i})
	}
	if len(events) == 0 {
		return nil, errors.New("the song has no notes")
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].frame != events[j].frame {
			return events[i].frame < events[j].frame
		}
		return !events[i].on && events[j].on
	})
	endFrame := events[len(events)-1].frame + renderTail
	buffer := make(AudioBuffer, 0, endFrame)
	render := make(AudioBuffer, 1024)
	// voices are handed out round robin; a note end only silences the voice
	// if a later note has not already stolen it
	var voiceNote [NumVoices]int
	for i := range voiceNote {
		voiceNote[i] = -1
	}
	nextVoice := 0
	frame, nextEvent := 0, 0
	for frame < endFrame {
		for nextEvent < len(events) && events[nextEvent].frame <= frame {
			e := events[nextEvent]
			nextEvent++
			if e.on {
				n := song.Notes[e.note]
				synth.Trigger(nextVoice, byte(n.Pitch), byte(n.Velocity))
				voiceNote[nextVoice] = e.note
				nextVoice = (nextVoice + 1) % NumVoices
				continue
			}
			for v := range voiceNote {
				if voiceNote[v] == e.note {
					synth.Release(v)
					voiceNote[v] = -1
				}
			}
		}
		sliceLen := min(len(render), endFrame-frame)
		if nextEvent < len(events) {
			sliceLen = min(sliceLen, events[nextEvent].frame-frame)
		}
		slice := render[:sliceLen]
		if err := synth.Render(slice); err != nil {
			return nil, fmt.Errorf("synth.Render failed: %w", err)
		}
		buffer = append(buffer, slice...)
		frame += sliceLen
		if progress != nil {
			progress(float32(frame) / float32(endFrame))
		}
	}
	return buffer, nil
}
