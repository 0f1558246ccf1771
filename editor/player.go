package editor

import (
	"fmt"
	"math"
	"sort"

	"github.com/nuottila/rulla"
)

type (
	// Player is the audio player for the editor, run in the audio thread.
	// It is controlled by messages from the model via the broker and by
	// MIDI events pulled from the process context. All its sends back to
	// the model are non-blocking so the audio thread can never dead-lock.
	Player struct {
		synth     rulla.Synth
		song      rulla.Song
		playing   bool
		looping   bool
		recording bool

		samplesPerUnit float64
		frame          int           // current position in the song, in samples
		events         []playerEvent // note ons and offs compiled from the song
		nextEvent      int
		endFrame       int

		voices      [rulla.NumVoices]voice
		voiceLevels [rulla.NumVoices]float32

		synther rulla.Synther
		broker  *Broker
	}

	// PlayerProcessContext tells the player which MIDI events happen
	// during the current buffer, with frame accurate timing.
	PlayerProcessContext interface {
		NextEvent(frame int) (event MIDINoteEvent, ok bool)
		FinishBlock(frame int)
	}

	// MIDINoteEvent is a MIDI event triggering or releasing a note. The
	// Frame is relative to the start of the current buffer.
	MIDINoteEvent struct {
		Frame    int
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}

	// NoteEvent is a note trigger or release travelling through the
	// broker, coming from the on-screen keyboard or typing keys. The
	// player stamps the event with the song position in samples before
	// forwarding it to the model, so recording stays sample accurate.
	NoteEvent struct {
		Source    any
		On        bool
		Channel   int
		Note      byte
		Velocity  byte
		Timestamp int64
	}

	NullPlayerProcessContext struct{}

	voice struct {
		noteID            int
		sustain           bool
		samplesSinceEvent int
	}

	playerEvent struct {
		frame    int
		on       bool
		note     byte
		velocity byte
		id       int
	}
)

func (NullPlayerProcessContext) NextEvent(frame int) (event MIDINoteEvent, ok bool) { return }
func (NullPlayerProcessContext) FinishBlock(frame int)                              {}

const numRenderTries = 10000

// releaseTail is how many samples the player keeps running past the last
// note off, letting releases ring out before playback stops.
const releaseTail = rulla.SampleRate / 2

func NewPlayer(broker *Broker, synther rulla.Synther) *Player {
	return &Player{
		broker:  broker,
		synther: synther,
	}
}

// Process renders audio to the given buffer, slicing it at every song
// event and MIDI event so triggers and releases land on the exact sample.
// If the synth errors, it is destroyed and an error is sent to the model;
// the player keeps rendering silence.
func (p *Player) Process(buffer rulla.AudioBuffer, context PlayerProcessContext) {
	p.processMessages()

	frame := 0
	midi, midiOk := context.NextEvent(frame)

	for i := 0; i < numRenderTries; i++ {
		for midiOk && frame >= midi.Frame {
			p.handleMIDIInput(midi)
			midi, midiOk = context.NextEvent(frame)
		}
		if p.playing && !p.recording && p.frame >= p.endFrame {
			if p.looping && p.endFrame > 0 {
				p.seek(0)
			} else {
				p.playing = false
				p.releaseSongVoices()
				p.send(IsPlayingMsg{false})
			}
		}
		for p.playing && p.nextEvent < len(p.events) && p.events[p.nextEvent].frame <= p.frame {
			e := p.events[p.nextEvent]
			p.nextEvent++
			if e.on {
				p.trigger(e.note, e.velocity, e.id)
			} else {
				p.release(e.id)
			}
		}
		sliceLen := len(buffer)
		if delta := midi.Frame - frame; midiOk && delta < sliceLen {
			sliceLen = delta
		}
		if p.playing {
			nextStop := math.MaxInt
			if !p.recording {
				// recording keeps rolling past the end so new notes can
				// land after the current last one
				nextStop = p.endFrame
			}
			if p.nextEvent < len(p.events) && p.events[p.nextEvent].frame < nextStop {
				nextStop = p.events[p.nextEvent].frame
			}
			if delta := nextStop - p.frame; delta >= 0 && delta < sliceLen {
				sliceLen = delta
			}
		}
		var err error
		if p.synth != nil {
			err = p.synth.Render(buffer[:sliceLen])
		} else {
			for i := range buffer[:sliceLen] {
				buffer[i] = [2]float32{}
			}
		}
		if err != nil {
			p.synth = nil
			p.SendAlert("PlayerCrash", fmt.Sprintf("synth.Render: %s", err.Error()), Error)
		}

		rendered := sliceLen
		buf := p.broker.GetAudioBuffer() // borrow a buffer from the broker
		buf = append(buf, buffer[:rendered]...)
		if len(buf) == 0 || !TrySend(p.broker.ToModel, MsgToModel{Data: buf}) {
			// if the buffer is empty or sending the rendered waveform to
			// the model failed, return the buffer to the broker
			p.broker.PutAudioBuffer(buf)
		}
		buffer = buffer[rendered:]
		frame += rendered
		if p.playing {
			p.frame += rendered
		}
		for i := range p.voices {
			p.voices[i].samplesSinceEvent += rendered
		}
		alpha := float32(math.Exp(-float64(rendered) / 15000))
		for i, state := range p.voices {
			if state.sustain {
				p.voiceLevels[i] = (p.voiceLevels[i]-0.5)*alpha + 0.5
			} else {
				p.voiceLevels[i] *= alpha
			}
		}
		// when the buffer is full, return
		if len(buffer) == 0 {
			p.send(nil)
			context.FinishBlock(frame)
			return
		}
	}
	p.SendAlert("PlayerCrash", fmt.Sprintf("player did not fill the audio buffer even with %d render calls", numRenderTries), Error)
}

func (p *Player) handleMIDIInput(midi MIDINoteEvent) {
	id := idForChannelNote(midi.Channel, midi.Note)
	if midi.On {
		p.trigger(midi.Note, midi.Velocity, id)
	} else {
		p.release(id)
	}
	p.send(NoteEvent{
		On:        midi.On,
		Channel:   midi.Channel,
		Note:      midi.Note,
		Velocity:  midi.Velocity,
		Timestamp: int64(p.frame),
	})
}

func (p *Player) processMessages() {
loop:
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case rulla.Song:
				p.setSong(m)
			case rulla.Synther:
				p.synther = m
				p.synth = nil
				p.ensureSynth()
			case PanicMsg:
				if m.Panic {
					p.synth = nil
				} else {
					p.ensureSynth()
				}
			case StartPlayMsg:
				p.ensureSynth()
				p.seekUnits(m.Position)
				p.playing = true
			case IsPlayingMsg:
				p.playing = m.Playing
				if !p.playing {
					p.releaseSongVoices()
				}
			case SeekMsg:
				p.seekUnits(m.Position)
			case LoopMsg:
				p.looping = m.Loop
			case RecordingMsg:
				p.recording = m.Recording
			case NoteEvent:
				id := idForChannelNote(m.Channel, m.Note)
				if m.On {
					p.trigger(m.Note, m.Velocity, id)
				} else {
					p.release(id)
				}
				m.Timestamp = int64(p.frame)
				p.send(m)
			default:
				// ignore unknown messages
			}
		default:
			break loop
		}
	}
}

func (p *Player) SendAlert(name, message string, priority AlertPriority) {
	p.send(Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

func (p *Player) setSong(song rulla.Song) {
	p.song = song
	p.samplesPerUnit = song.SamplesPerUnit(rulla.SampleRate)
	p.compileSchedule()
}

// compileSchedule turns the notes of the song into a sorted list of
// trigger and release events, in samples. At equal frames releases sort
// before triggers so adjacent notes on the same pitch retrigger cleanly.
func (p *Player) compileSchedule() {
	p.events = p.events[:0]
	for i, n := range p.song.Notes {
		start := int(math.Round(n.Start * p.samplesPerUnit))
		end := int(math.Round(n.End() * p.samplesPerUnit))
		if end <= start {
			continue
		}
		id := idForSongNote(i)
		p.events = append(p.events,
			playerEvent{frame: start, on: true, note: byte(n.Pitch), velocity: byte(n.Velocity), id: id},
			playerEvent{frame: end, on: false, id: id})
	}
	sort.SliceStable(p.events, func(i, j int) bool {
		a, b := p.events[i], p.events[j]
		if a.frame != b.frame {
			return a.frame < b.frame
		}
		return !a.on && b.on
	})
	p.endFrame = 0
	if len(p.events) > 0 {
		p.endFrame = p.events[len(p.events)-1].frame + releaseTail
	}
	p.nextEvent = sort.Search(len(p.events), func(i int) bool { return p.events[i].frame >= p.frame })
}

func (p *Player) seekUnits(units float64) {
	p.seek(int(math.Round(units * p.samplesPerUnit)))
}

func (p *Player) seek(frame int) {
	p.frame = frame
	p.nextEvent = sort.Search(len(p.events), func(i int) bool { return p.events[i].frame >= frame })
	p.releaseSongVoices()
}

func (p *Player) ensureSynth() {
	if p.synth != nil || p.synther == nil {
		return
	}
	var err error
	p.synth, err = p.synther.Synth()
	if err != nil {
		p.synth = nil
		p.SendAlert("PlayerCrash", fmt.Sprintf("synther.Synth: %v", err), Error)
	}
}

// all sends from the player are non-blocking, so the audio thread can
// never end up waiting on the model
func (p *Player) send(message any) {
	pos := 0.0
	if p.samplesPerUnit > 0 {
		pos = float64(p.frame) / p.samplesPerUnit
	}
	TrySend(p.broker.ToModel, MsgToModel{
		HasPanicPosLevels: true,
		Panic:             p.synth == nil,
		SongPosition:      pos,
		VoiceLevels:       p.voiceLevels,
		Data:              message,
	})
}

func (p *Player) trigger(note byte, velocity byte, id int) {
	p.release(id)
	if p.synth == nil {
		return
	}
	var age int = 0
	oldestReleased := false
	oldestVoice := 0
	for i := 0; i < rulla.NumVoices; i++ {
		// find a suitable voice to trigger. a released voice is preferred
		// over one still playing; among equals the older one wins
		if (!p.voices[i].sustain && !oldestReleased) ||
			(!p.voices[i].sustain == oldestReleased && p.voices[i].samplesSinceEvent >= age) {
			oldestVoice = i
			oldestReleased = !p.voices[i].sustain
			age = p.voices[i].samplesSinceEvent
		}
	}
	p.voices[oldestVoice] = voice{noteID: id, sustain: true, samplesSinceEvent: 0}
	p.voiceLevels[oldestVoice] = 1.0
	p.synth.Trigger(oldestVoice, note, velocity)
}

func (p *Player) release(id int) {
	if p.synth == nil {
		return
	}
	for i := range p.voices {
		if p.voices[i].noteID == id && p.voices[i].sustain {
			p.voices[i].sustain = false
			p.voices[i].samplesSinceEvent = 0
			p.synth.Release(i)
			return
		}
	}
}

func (p *Player) releaseSongVoices() {
	for i := range p.voices {
		if p.voices[i].noteID < 0 && p.voices[i].sustain {
			p.voices[i].sustain = false
			p.voices[i].samplesSinceEvent = 0
			if p.synth != nil {
				p.synth.Release(i)
			}
		}
	}
}

// voices need an identifier for who triggered them, so a release finds
// the right voice. Nonnegative ids are jamming from the keyboard or MIDI,
// negative ids are notes of the song being played.
func idForChannelNote(channel int, note byte) int {
	return channel*256 + int(note)
}

func idForSongNote(index int) int {
	return -1 - index
}
