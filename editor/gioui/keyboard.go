package gioui

import (
	"github.com/nuottila/rulla/editor"
)

type (
	// Keyboard is used to associate the keys of a keyboard (e.g. computer or a
	// mouse on the key strip) to currently sounding notes. You can use any
	// type T to identify each key; T should be a comparable type.
	Keyboard[T comparable] struct {
		broker  *editor.Broker
		pressed map[T]editor.NoteEvent
	}
)

func MakeKeyboard[T comparable](broker *editor.Broker) Keyboard[T] {
	return Keyboard[T]{
		broker:  broker,
		pressed: make(map[T]editor.NoteEvent),
	}
}

func (t *Keyboard[T]) Press(key T, ev editor.NoteEvent) {
	if _, ok := t.pressed[key]; ok {
		return // already playing a note with this key, do not send a new event
	}
	t.Release(key) // unset any previous note
	if ev.Note > 1 {
		ev.Source = t // set the source to this keyboard
		ev.On = true
		if editor.TrySend(t.broker.ToPlayer, any(ev)) {
			t.pressed[key] = ev
			// copy to the GUI so the key strip lights up also for notes
			// played with the computer keyboard or the mouse
			editor.TrySend(t.broker.ToGUI, any(ev))
		}
	}
}

func (t *Keyboard[T]) Release(key T) {
	if ev, ok := t.pressed[key]; ok {
		ev.On = false // the pressed contains the event we need to send to release the note
		editor.TrySend(t.broker.ToPlayer, any(ev))
		editor.TrySend(t.broker.ToGUI, any(ev))
		delete(t.pressed, key)
	}
}

func (t *Keyboard[T]) ReleaseAll() {
	for key := range t.pressed {
		t.Release(key)
	}
}
