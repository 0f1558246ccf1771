package editor_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"testing"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
	"github.com/nuottila/rulla/synth"
)

type modelFuzzState struct {
	model     *editor.Model
	clipboard []byte
	file      []byte
}

func (s *modelFuzzState) Iterate(yield func(string, func(p string, t *testing.T)) bool, seed int) {
	// Ints
	s.IterateInt("BPM", s.model.BPM(), yield, seed)
	s.IterateInt("Numerator", s.model.Numerator(), yield, seed)
	s.IterateInt("Denominator", s.model.Denominator(), yield, seed)
	s.IterateInt("Snap", s.model.Snap(), yield, seed)
	s.IterateInt("NoteVelocity", s.model.NoteVelocity(), yield, seed)
	s.IterateInt("Octave", s.model.Octave(), yield, seed)
	s.IterateInt("Zoom", s.model.Zoom(), yield, seed)
	s.IterateInt("SelectionVelocity", s.model.Notes().Velocity(), yield, seed)
	s.IterateInt("MIDIInput", s.model.MIDI().Input(), yield, seed)
	s.IterateInt("SyntherIndex", s.model.Play().SyntherIndex(), yield, seed)
	// Bools
	s.IterateBool("Panicked", s.model.Play().Panicked(), yield, seed)
	s.IterateBool("Recording", s.model.Play().IsRecording(), yield, seed)
	s.IterateBool("Started", s.model.Play().Started(), yield, seed)
	s.IterateBool("Following", s.model.Play().IsFollowing(), yield, seed)
	s.IterateBool("Looping", s.model.Play().IsLooping(), yield, seed)
	s.IterateBool("SelectMode", s.model.SelectMode(), yield, seed)
	s.IterateBool("DrawMode", s.model.DrawMode(), yield, seed)
	s.IterateBool("EraseMode", s.model.EraseMode(), yield, seed)
	// Strings
	s.IterateString("FilePath", s.model.FilePath(), yield, seed)
	s.IterateString("Title", s.model.Title(), yield, seed)
	s.IterateString("Author", s.model.Author(), yield, seed)
	// Actions. SaveSong is left out on purpose: with a fuzzed FilePath it
	// would create files outside the test directory.
	s.IterateAction("DeleteSelected", s.model.Notes().DeleteSelected(), yield, seed)
	s.IterateAction("SelectAll", s.model.Notes().SelectAll(), yield, seed)
	s.IterateAction("Deselect", s.model.Notes().Deselect(), yield, seed)
	s.IterateAction("TransposeUp", s.model.Notes().TransposeUp(), yield, seed)
	s.IterateAction("TransposeDown", s.model.Notes().TransposeDown(), yield, seed)
	s.IterateAction("OctaveUp", s.model.Notes().OctaveUp(), yield, seed)
	s.IterateAction("OctaveDown", s.model.Notes().OctaveDown(), yield, seed)
	s.IterateAction("NudgeLeft", s.model.Notes().NudgeLeft(), yield, seed)
	s.IterateAction("NudgeRight", s.model.Notes().NudgeRight(), yield, seed)
	s.IterateAction("PlayFromBeginning", s.model.Play().FromBeginning(), yield, seed)
	s.IterateAction("PlayFromCurrentPos", s.model.Play().FromCurrentPos(), yield, seed)
	s.IterateAction("StopPlaying", s.model.Play().Stop(), yield, seed)
	s.IterateAction("NewSong", s.model.NewSong(), yield, seed)
	s.IterateAction("OpenSong", s.model.OpenSong(), yield, seed)
	s.IterateAction("DiscardSong", s.model.DiscardSong(), yield, seed)
	s.IterateAction("SaveSongAs", s.model.SaveSongAs(), yield, seed)
	s.IterateAction("Cancel", s.model.Cancel(), yield, seed)
	s.IterateAction("Export", s.model.Export(), yield, seed)
	s.IterateAction("ExportFloat", s.model.ExportFloat(), yield, seed)
	s.IterateAction("ExportInt16", s.model.ExportInt16(), yield, seed)
	s.IterateAction("ExportSMF", s.model.ExportSMF(), yield, seed)
	s.IterateAction("ExportText", s.model.ExportText(), yield, seed)
	s.IterateAction("MIDIRefresh", s.model.MIDI().Refresh(), yield, seed)
	// Gestures
	yield("PointerDown", func(p string, t *testing.T) {
		s.model.Interact(editor.PointerDown{X: float64(seed%700) - 60, Y: float64(seed%2700) - 60, Multi: seed%2 == 0, Double: seed%3 == 0})
	})
	yield("PointerMove", func(p string, t *testing.T) {
		s.model.Interact(editor.PointerMove{X: float64(seed%700) - 60, Y: float64(seed%2700) - 60})
	})
	yield("PointerUp", func(p string, t *testing.T) {
		s.model.Interact(editor.PointerUp{X: float64(seed%700) - 60, Y: float64(seed%2700) - 60})
	})
	yield("CancelGesture", func(p string, t *testing.T) {
		s.model.Interact(editor.Cancel{})
	})
	yield("CommitLyric", func(p string, t *testing.T) {
		s.model.Interact(editor.CommitLyric{Text: fmt.Sprintf("%d", seed)})
	})
	yield("DiscardLyric", func(p string, t *testing.T) {
		s.model.Interact(editor.DiscardLyric{})
	})
	// Viewport
	yield("ResizeViewport", func(p string, t *testing.T) {
		s.model.ResizeViewport(float64(seed&1023)+100, float64(seed>>2&1023)+100)
	})
	yield("ScrollBy", func(p string, t *testing.T) {
		s.model.ScrollBy(float64(seed%2000)-500, float64(seed%900)-200)
	})
	yield("SetScroll", func(p string, t *testing.T) {
		s.model.SetScroll(float64(seed%6000)-500, float64(seed%3000)-500)
	})
	yield("ZoomBy", func(p string, t *testing.T) {
		s.model.ZoomBy(seed%5-2, float64(seed%640), float64(seed%480))
	})
	yield("Seek", func(p string, t *testing.T) {
		s.model.Play().Seek(float64(seed%4000) - 200)
	})
	yield("EnsureVisible", func(p string, t *testing.T) {
		s.model.EnsureVisiblePosition(float64(seed % 4000))
	})
	yield("CenterOn", func(p string, t *testing.T) {
		s.model.CenterOnPosition(float64(seed % 4000))
	})
	// Clipboard
	yield("CopyNotes", func(p string, t *testing.T) {
		if data, ok := s.model.Notes().Copy(); ok {
			s.clipboard = data
		}
	})
	yield("PasteNotes", func(p string, t *testing.T) {
		s.model.Notes().Paste(s.clipboard)
	})
	// File reading
	if s.file != nil {
		yield("ReadSong", func(p string, t *testing.T) {
			reader := bytes.NewReader(s.file)
			readCloser := io.NopCloser(reader)
			s.model.ReadSong(readCloser)
		})
	}
	// File saving
	yield("WriteSong", func(p string, t *testing.T) {
		writer := bytes.NewBuffer(nil)
		s.model.WriteSong(myWriteCloser{writer})
		s.file = writer.Bytes()
	})
	yield("WriteSMF", func(p string, t *testing.T) {
		writer := bytes.NewBuffer(nil)
		s.model.WriteSMF(myWriteCloser{writer})
		s.file = writer.Bytes()
	})
	// Broker
	yield("ProcessMessages", func(p string, t *testing.T) {
		for i := 0; i < 1024; i++ {
			select {
			case msg := <-s.model.Broker().ToModel:
				s.model.ProcessMsg(msg)
			default:
				return
			}
		}
	})
}

func (s *modelFuzzState) IterateInt(name string, i editor.Int, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	r := i.Range()
	yield(name+".Set", func(p string, t *testing.T) {
		i.SetValue(seed%(r.Max-r.Min+10) - 5 + r.Min)
	})
	yield(name+".Value", func(p string, t *testing.T) {
		if v := i.Value(); v < r.Min || v > r.Max {
			r := i.Range()
			t.Errorf("Path: %s %s value out of range [%d,%d]: %d", p, name, r.Min, r.Max, v)
		}
	})
}

func (s *modelFuzzState) IterateAction(name string, a editor.Action, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	yield(name+".Do", func(p string, t *testing.T) {
		a.Do()
	})
}

func (s *modelFuzzState) IterateBool(name string, b editor.Bool, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	yield(name+".Set", func(p string, t *testing.T) {
		b.SetValue(seed%2 == 0)
	})
	yield(name+".Toggle", func(p string, t *testing.T) {
		b.Toggle()
	})
}

func (s *modelFuzzState) IterateString(name string, str editor.String, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	yield(name+".Set", func(p string, t *testing.T) {
		str.SetValue(fmt.Sprintf("%d", seed))
	})
}

func checkModelInvariants(p string, t *testing.T, model *editor.Model) {
	frame := model.RollFrame()
	seen := make(map[rulla.NoteID]bool, len(frame.Notes))
	for _, n := range frame.Notes {
		if n.ID == "" || seen[n.ID] {
			t.Errorf("Path: %s duplicate or missing note id: %q", p, n.ID)
		}
		seen[n.ID] = true
		if n.Duration <= 0 || n.Start < 0 || n.Pitch < 0 || n.Pitch > rulla.MaxPitch || n.Velocity < 0 || n.Velocity > 127 {
			t.Errorf("Path: %s note out of its domain: %+v", p, n)
		}
	}
	for id := range frame.Selection {
		if !seen[id] {
			t.Errorf("Path: %s selection refers to a note that does not exist: %q", p, id)
		}
	}
	v := frame.Viewport
	if v.Zoom < 0 || v.Zoom > editor.MaxZoomLevel() {
		t.Errorf("Path: %s zoom level out of range: %d", p, v.Zoom)
	}
	if v.ScrollX < 0 || v.ScrollY < 0 {
		t.Errorf("Path: %s scroll went negative: %+v", p, v)
	}
}

func FuzzModel(f *testing.F) {
	seed := make([]byte, 1)
	for i := range seed {
		seed[i] = byte(i)
	}
	f.Add(seed)
	f.Fuzz(func(t *testing.T, slice []byte) {
		reader := bytes.NewReader(slice)
		synthers := []rulla.Synther{synth.Sine(), synth.Saw(), synth.Triangle()}
		broker := editor.NewBroker()
		model := editor.NewModel(broker, synthers, editor.NullMIDIContext{}, "")
		player := editor.NewPlayer(broker, synthers[0])
		buf := make(rulla.AudioBuffer, 2048)
		closeChan := make(chan struct{})
		go func() {
		loop:
			for {
				select {
				case <-closeChan:
					break loop
				default:
					player.Process(buf, editor.NullPlayerProcessContext{})
				}
			}
		}()
		state := modelFuzzState{model: model}
		count := 0
		state.Iterate(func(n string, f func(p string, t *testing.T)) bool {
			count++
			return true
		}, 0)
		totalPath := ""
		for m, err := binary.ReadVarint(reader); err == nil; m, err = binary.ReadVarint(reader) {
			seed := int(m)
			index := seed % count
			state.Iterate(func(n string, f func(p string, t *testing.T)) bool {
				if index == 0 {
					totalPath += n + ". "
					f(totalPath, t)
				}
				index--
				return index > 0
			}, seed)
			checkModelInvariants(totalPath, t, model)
		}
		closeChan <- struct{}{}
		model.Close()
	})
}
