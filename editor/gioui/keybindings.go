package gioui

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gioui.org/io/clipboard"
	"gioui.org/io/key"
	"gopkg.in/yaml.v3"

	"github.com/nuottila/rulla/editor"
)

type (
	KeyAction string

	KeyBinding struct {
		Key                                        string
		Shortcut, Ctrl, Command, Shift, Alt, Super bool
		Action                                     string
	}
)

var keyBindingMap = map[key.Event]string{}
var keyActionMap = map[KeyAction]string{} // holds an informative string of the first key bound to an action

//go:embed keybindings.yml
var defaultKeyBindings []byte

func init() {
	var keyBindings, userKeybindings []KeyBinding
	dec := yaml.NewDecoder(bytes.NewReader(defaultKeyBindings))
	dec.KnownFields(true)
	if err := dec.Decode(&keyBindings); err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	if err := ReadCustomConfig("keybindings.yml", &userKeybindings); err == nil {
		keyBindings = append(keyBindings, userKeybindings...)
	}

	for _, kb := range keyBindings {
		var mods key.Modifiers
		if kb.Shortcut {
			mods |= key.ModShortcut
		}
		if kb.Ctrl {
			mods |= key.ModCtrl
		}
		if kb.Command {
			mods |= key.ModCommand
		}
		if kb.Shift {
			mods |= key.ModShift
		}
		if kb.Alt {
			mods |= key.ModAlt
		}
		if kb.Super {
			mods |= key.ModSuper
		}

		keyEvent := key.Event{Name: key.Name(kb.Key), Modifiers: mods, State: key.Press}
		action, ok := keyBindingMap[keyEvent] // if this key has been previously bound, remove it from the hint map
		if ok {
			delete(keyActionMap, KeyAction(action))
		}
		if kb.Action == "" { // unbind
			delete(keyBindingMap, keyEvent)
		} else { // bind
			keyBindingMap[keyEvent] = kb.Action
			// last binding of the same action wins for displaying the hint
			modString := strings.Replace(mods.String(), "-", "+", -1)
			text := kb.Key
			if modString != "" {
				text = modString + "+" + text
			}
			keyActionMap[KeyAction(kb.Action)] = text
		}
	}
}

func makeHint(hint, format, action string) string {
	if keyActionMap[KeyAction(action)] != "" {
		return hint + fmt.Sprintf(format, keyActionMap[KeyAction(action)])
	}
	return hint
}

// KeyEvent handles incoming key events, dispatching them to the bound edits.
func (t *Editor) KeyEvent(e key.Event, gtx C) {
	if e.State == key.Release {
		t.KeyNoteMap.Release(e.Name)
		return
	}
	action, ok := keyBindingMap[e]
	if !ok {
		return
	}
	switch action {
	// Actions
	case "NewSong":
		t.NewSong().Do()
	case "OpenSong":
		t.OpenSong().Do()
	case "SaveSong":
		t.SaveSong().Do()
	case "SaveSongAs":
		t.SaveSongAs().Do()
	case "ExportWav":
		t.Export().Do()
	case "ExportFloat":
		t.ExportFloat().Do()
	case "ExportInt16":
		t.ExportInt16().Do()
	case "ExportSMF":
		t.ExportSMF().Do()
	case "ExportText":
		t.ExportText().Do()
	case "Quit":
		t.RequestQuit().Do()
	case "DeleteSelected":
		t.Notes().DeleteSelected().Do()
	case "SelectAll":
		t.Notes().SelectAll().Do()
	case "Deselect":
		t.Notes().Deselect().Do()
	case "AddSemitone":
		t.Notes().TransposeUp().Do()
	case "SubtractSemitone":
		t.Notes().TransposeDown().Do()
	case "AddOctave":
		t.Notes().OctaveUp().Do()
	case "SubtractOctave":
		t.Notes().OctaveDown().Do()
	case "NudgeLeft":
		t.Notes().NudgeLeft().Do()
	case "NudgeRight":
		t.Notes().NudgeRight().Do()
	case "PlayCurrentPosFollow":
		t.Play().IsFollowing().SetValue(true)
		t.Play().FromCurrentPos().Do()
	case "PlayCurrentPosUnfollow":
		t.Play().IsFollowing().SetValue(false)
		t.Play().FromCurrentPos().Do()
	case "PlaySongStartFollow":
		t.Play().IsFollowing().SetValue(true)
		t.Play().FromBeginning().Do()
	case "PlaySongStartUnfollow":
		t.Play().IsFollowing().SetValue(false)
		t.Play().FromBeginning().Do()
	case "StopPlaying":
		t.Play().Stop().Do()
	case "MIDIRefresh":
		t.MIDI().Refresh().Do()
	// Booleans
	case "PanicToggle":
		t.Play().Panicked().Toggle()
	case "RecordingToggle":
		t.Play().IsRecording().Toggle()
	case "PlayingToggleFollow":
		t.Play().IsFollowing().SetValue(true)
		t.Play().Started().Toggle()
	case "PlayingToggleUnfollow":
		t.Play().IsFollowing().SetValue(false)
		t.Play().Started().Toggle()
	case "FollowToggle":
		t.Play().IsFollowing().Toggle()
	case "LoopToggle":
		t.Play().IsLooping().Toggle()
	case "SelectMode":
		t.SelectMode().SetValue(true)
	case "DrawMode":
		t.DrawMode().SetValue(true)
	case "EraseMode":
		t.EraseMode().SetValue(true)
	// Integers
	case "BPMAdd":
		t.BPM().Add(1)
	case "BPMSubtract":
		t.BPM().Add(-1)
	case "NoteVelocityAdd":
		t.NoteVelocity().Add(1)
	case "NoteVelocitySubtract":
		t.NoteVelocity().Add(-1)
	case "OctaveAdd":
		t.Octave().Add(1)
	case "OctaveSubtract":
		t.Octave().Add(-1)
	case "ZoomAdd":
		t.Zoom().Add(1)
	case "ZoomSubtract":
		t.Zoom().Add(-1)
	case "SnapAdd":
		t.Snap().Add(1)
	case "SnapSubtract":
		t.Snap().Add(-1)
	case "NumeratorAdd":
		t.Numerator().Add(1)
	case "NumeratorSubtract":
		t.Numerator().Add(-1)
	case "DenominatorAdd":
		t.Denominator().Add(1)
	case "DenominatorSubtract":
		t.Denominator().Add(-1)
	// Other miscellaneous
	case "Copy":
		if data, ok := t.Notes().Copy(); ok {
			gtx.Execute(clipboard.WriteCmd{Type: "application/text", Data: io.NopCloser(bytes.NewReader(data))})
		}
	case "Cut":
		if data, ok := t.Notes().Copy(); ok {
			t.Notes().DeleteSelected().Do()
			gtx.Execute(clipboard.WriteCmd{Type: "application/text", Data: io.NopCloser(bytes.NewReader(data))})
		}
	case "Paste":
		gtx.Execute(clipboard.ReadCmd{Tag: t})
	default:
		if len(action) > 4 && action[:4] == "Note" {
			val, err := strconv.Atoi(string(action[4:]))
			if err != nil {
				break
			}
			n := noteAsValue(t.Octave().Value(), val-12)
			vel := byte(t.NoteVelocity().Value())
			t.KeyNoteMap.Press(e.Name, editor.NoteEvent{Channel: 0, Note: n, Velocity: vel})
		}
	}
}

const baseNote = 24

func noteAsValue(octave, note int) byte {
	return byte(baseNote + (octave * 12) + note)
}
