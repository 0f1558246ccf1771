// Package gomidi provides MIDI input through the rtmidi driver.
package gomidi

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/editor"
)

type (
	// RTMIDIContext is both the editor.MIDIContext enumerating input
	// devices and the editor.PlayerProcessContext handing received notes
	// to the player frame accurately. Note ons and offs additionally go
	// to the MIDI router so that the GUI can light up the keys; the
	// audible path is only the player one.
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		currentIn          drivers.In
		inputDevices       []RTMIDIDevice
		devicesInitialized bool
		events             chan timestampedMsg
		eventsBuf          []timestampedMsg
		eventIndex         int
		startFrame         int
		startFrameSet      bool
		broker             *editor.Broker
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}

	timestampedMsg struct {
		frame int
		msg   midi.Message
	}
)

// NewContext opens the rtmidi driver. Failing to do so is not an error:
// the context then has no devices and Support tells the user why.
func NewContext(broker *editor.Broker) *RTMIDIContext {
	m := RTMIDIContext{events: make(chan timestampedMsg, 1024), broker: broker}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

func (c *RTMIDIContext) Support() editor.MIDISupport {
	if c.driver == nil {
		return editor.MIDISupportNoDriver
	}
	return editor.MIDISupported
}

func (c *RTMIDIContext) Inputs(yield func(input editor.MIDIInputDevice) bool) {
	if c.devicesInitialized {
		c.yieldCachedInputDevices(yield)
	} else {
		c.initInputDevices(yield)
	}
}

func (c *RTMIDIContext) yieldCachedInputDevices(yield func(input editor.MIDIInputDevice) bool) {
	for _, device := range c.inputDevices {
		if !yield(device) {
			break
		}
	}
}

func (c *RTMIDIContext) initInputDevices(yield func(input editor.MIDIInputDevice) bool) {
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for i := 0; i < len(ins); i++ {
		device := RTMIDIDevice{context: c, in: ins[i]}
		c.inputDevices = append(c.inputDevices, device)
		if !yield(device) {
			break
		}
	}
	c.devicesInitialized = true
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.driver.Close()
}

// Open an input device, closing the currently open one if necessary.
func (d RTMIDIDevice) Open() error {
	if d.context.currentIn == d.in {
		return nil
	}
	if d.context.driver == nil {
		return errors.New("no driver available")
	}
	if d.context.currentIn != nil && d.context.currentIn.IsOpen() {
		d.context.currentIn.Close()
	}
	d.context.currentIn = d.in
	err := d.in.Open()
	if err != nil {
		d.context.currentIn = nil
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	_, err = midi.ListenTo(d.in, d.context.HandleMessage)
	if err != nil {
		d.in.Close()
		d.context.currentIn = nil
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	return nil
}

func (d RTMIDIDevice) Close() error {
	if d.context.currentIn != d.in {
		return nil
	}
	d.context.currentIn = nil
	if d.in.IsOpen() {
		return d.in.Close()
	}
	return nil
}

func (d RTMIDIDevice) IsOpen() bool {
	return d.context.currentIn == d.in && d.in.IsOpen()
}

func (d RTMIDIDevice) String() string { return d.in.String() }

// HandleMessage is the callback the midi library calls on its listener
// goroutine, so it may not touch anything but the channels.
func (c *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	m := timestampedMsg{frame: int(int64(timestampms) * rulla.SampleRate / 1000), msg: msg}
	select {
	case c.events <- m: // if the channel is full, just drop the message
	default:
		return
	}
	var channel, key, velocity uint8
	isNoteOn := msg.GetNoteOn(&channel, &key, &velocity)
	isNoteOff := !isNoteOn && msg.GetNoteOff(&channel, &key, &velocity)
	if isNoteOn || isNoteOff {
		editor.TrySend(c.broker.ToMIDIRouter, any(editor.NoteEvent{
			Source:   c,
			On:       isNoteOn,
			Channel:  int(channel),
			Note:     key,
			Velocity: velocity,
		}))
	}
}

func (c *RTMIDIContext) NextEvent(frame int) (event editor.MIDINoteEvent, ok bool) {
F:
	for {
		select {
		case msg := <-c.events:
			c.eventsBuf = append(c.eventsBuf, msg)
			if !c.startFrameSet {
				c.startFrame = msg.frame
				c.startFrameSet = true
			}
		default:
			break F
		}
	}
	if c.eventIndex > 0 { // an event was consumed, check how badly we need to adjust the timing
		delta := frame + c.startFrame - c.eventsBuf[c.eventIndex-1].frame
		// delta should never be a negative number, because the renderer does
		// not consume an event until current frame is past the frame of the
		// event. However, if it's been a while since we consumed an event,
		// delta may be *positive* i.e. we consume the event too late. So
		// adjust the internal clock in that case.
		c.startFrame -= delta / 5 // adjust the start frame towards the consumed event
	}
	for c.eventIndex < len(c.eventsBuf) {
		var channel uint8
		var velocity uint8
		var key uint8
		m := c.eventsBuf[c.eventIndex]
		f := m.frame - c.startFrame
		c.eventIndex++
		isNoteOn := m.msg.GetNoteOn(&channel, &key, &velocity)
		isNoteOff := !isNoteOn && m.msg.GetNoteOff(&channel, &key, &velocity)
		if isNoteOn || isNoteOff {
			return editor.MIDINoteEvent{
				Frame:    f,
				On:       isNoteOn,
				Channel:  int(channel),
				Note:     key,
				Velocity: velocity,
			}, true
		}
	}
	// the index one past the end tells FinishBlock that nothing is left
	// pending, so the whole buffer can be dropped
	c.eventIndex = len(c.eventsBuf) + 1
	return editor.MIDINoteEvent{}, false
}

func (c *RTMIDIContext) FinishBlock(frame int) {
	c.startFrame += frame
	if c.eventIndex > 0 {
		copy(c.eventsBuf, c.eventsBuf[c.eventIndex-1:])
		c.eventsBuf = c.eventsBuf[:len(c.eventsBuf)-c.eventIndex+1]
		if len(c.eventsBuf) > 0 {
			// events were not consumed this round; adjust the start frame
			// towards the future events, trying to render them at the same
			// time as they were received. delta is always negative here.
			delta := c.startFrame - c.eventsBuf[0].frame
			c.startFrame -= delta / 5
		}
	}
	c.eventIndex = 0
}
