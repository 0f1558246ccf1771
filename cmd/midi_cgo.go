//go:build cgo

package cmd

import (
	"github.com/nuottila/rulla/editor"
	"github.com/nuottila/rulla/editor/gomidi"
)

func NewMidiContext(broker *editor.Broker) editor.MIDIContext {
	return gomidi.NewContext(broker)
}
