package editor

type Play Model

func (m *Model) Play() *Play { return (*Play)(m) }

// Position returns the current play position in time units.
func (m *Play) Position() float64 { return m.playPosition }

// FromCurrentPos returns an Action to start playing the song from the
// current play position.
func (m *Play) FromCurrentPos() Action { return MakeAction((*playCurrentPos)(m)) }

type playCurrentPos Play

func (m *playCurrentPos) Do() {
	(*Model)(m).setPanic(false)
	m.playing = true
	TrySend(m.broker.ToPlayer, any(StartPlayMsg{m.playPosition}))
}

// FromBeginning returns an Action to start playing the song from the beginning.
func (m *Play) FromBeginning() Action { return MakeAction((*playSongStart)(m)) }

type playSongStart Play

func (m *playSongStart) Do() {
	(*Model)(m).setPanic(false)
	m.playing = true
	TrySend(m.broker.ToPlayer, any(StartPlayMsg{}))
	TrySend(m.broker.ToGUI, any(MsgToGUI{Kind: GUIMessageCenterOnPosition, Position: 0}))
}

// Stop returns an Action to stop playing the song. Stopping an already
// stopped song panics the synth, silencing notes held by jamming.
func (m *Play) Stop() Action { return MakeAction((*stopPlaying)(m)) }

type stopPlaying Play

func (m *stopPlaying) Do() {
	if !m.playing {
		(*Model)(m).setPanic(true)
		return
	}
	m.playing = false
	TrySend(m.broker.ToPlayer, any(IsPlayingMsg{false}))
}

// Seek moves the play position without changing whether the song plays.
func (m *Play) Seek(position float64) {
	if position < 0 {
		position = 0
	}
	m.playPosition = position
	TrySend(m.broker.ToPlayer, any(SeekMsg{position}))
}

// Panicked returns a Bool to toggle whether the synth is in panic mode or not.
func (m *Play) Panicked() Bool { return MakeBool((*playPanicked)(m)) }

type playPanicked Model

func (m *playPanicked) Value() bool       { return m.panicked }
func (m *playPanicked) SetValue(val bool) { (*Model)(m).setPanic(val) }

// IsRecording returns a Bool to toggle whether note input gets recorded
// onto the roll during playback.
func (m *Play) IsRecording() Bool { return MakeBool((*playIsRecording)(m)) }

type playIsRecording Model

func (m *playIsRecording) Value() bool { return m.recording }
func (m *playIsRecording) SetValue(val bool) {
	m.recording = val
	if !val {
		(*Model)(m).finishRecording()
	}
	TrySend(m.broker.ToPlayer, any(RecordingMsg{val}))
}

// Started returns a Bool to toggle whether playback has started or not.
func (m *Play) Started() Bool { return MakeBool((*playStarted)(m)) }

type playStarted Play

func (m *playStarted) Value() bool { return m.playing }
func (m *playStarted) SetValue(val bool) {
	m.playing = val
	if m.playing {
		(*Model)(m).setPanic(false)
		TrySend(m.broker.ToPlayer, any(StartPlayMsg{m.playPosition}))
	} else {
		TrySend(m.broker.ToPlayer, any(IsPlayingMsg{val}))
	}
}

// IsFollowing returns a Bool to toggle whether the viewport follows the
// play position.
func (m *Play) IsFollowing() Bool { return MakeBoolFromPtr(&m.d.Follow) }

// IsLooping returns a Bool to toggle whether playback wraps back to the
// beginning after the last note.
func (m *Play) IsLooping() Bool { return MakeBool((*playIsLooping)(m)) }

type playIsLooping Play

func (m *playIsLooping) Value() bool { return m.d.Loop }
func (t *playIsLooping) SetValue(val bool) {
	m := (*Model)(t)
	if m.d.Loop == val {
		return
	}
	defer m.change(SettingChange, MinorChange)()
	m.d.Loop = val
	TrySend(m.broker.ToPlayer, any(LoopMsg{val}))
}

func (m *Model) setPanic(val bool) {
	if m.panicked != val {
		m.panicked = val
		TrySend(m.broker.ToPlayer, any(PanicMsg{val}))
	}
}

// SyntherIndex returns an Int representing the index of the currently
// selected synther.
func (m *Play) SyntherIndex() Int { return MakeInt((*playSyntherIndex)(m)) }

type playSyntherIndex Play

func (v *playSyntherIndex) Value() int            { return v.syntherIndex }
func (v *playSyntherIndex) Range() RangeInclusive { return RangeInclusive{0, len(v.synthers) - 1} }
func (v *playSyntherIndex) SetValue(value int) bool {
	if value < 0 || value >= len(v.synthers) {
		return false
	}
	v.syntherIndex = value
	TrySend(v.broker.ToPlayer, any(v.synthers[value]))
	return true
}
func (v *playSyntherIndex) StringOf(value int) string {
	if value < 0 || value >= len(v.synthers) {
		return ""
	}
	return v.synthers[value].Name()
}

// SyntherName returns the name of the currently selected synther.
func (v *Play) SyntherName() string { return v.synthers[v.syntherIndex].Name() }
