package rulla_test

import (
	"bytes"
	"testing"

	"github.com/nuottila/rulla"
)

func testSong() rulla.Song {
	return rulla.Song{
		Title:         "Test",
		Author:        "Author",
		BPM:           100,
		TimeSignature: rulla.TimeSignature{Numerator: 3, Denominator: 4},
		Notes: rulla.NoteList{
			{ID: "a", Start: 0, Duration: 80, Pitch: 60, Velocity: 100, Lyric: "la"},
			{ID: "b", Start: 80, Duration: 40, Pitch: 64, Velocity: 80},
			{ID: "c", Start: 120, Duration: 20, Pitch: 67, Velocity: 127, Lyric: "dii"},
		},
	}
}

func TestSMFRoundTrip(t *testing.T) {
	song := testSong()
	var buf bytes.Buffer
	if err := rulla.WriteSMF(song, &buf); err != nil {
		t.Fatalf("WriteSMF failed: %v", err)
	}
	got, err := rulla.ReadSMF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSMF failed: %v", err)
	}
	if got.BPM != song.BPM {
		t.Errorf("BPM = %d, want %d", got.BPM, song.BPM)
	}
	if got.TimeSignature != song.TimeSignature {
		t.Errorf("time signature = %v, want %v", got.TimeSignature, song.TimeSignature)
	}
	if len(got.Notes) != len(song.Notes) {
		t.Fatalf("note count = %d, want %d", len(got.Notes), len(song.Notes))
	}
	for i, want := range song.Notes {
		n := got.Notes[i]
		if n.Start != want.Start || n.Duration != want.Duration {
			t.Errorf("note %d timing = (%v, %v), want (%v, %v)", i, n.Start, n.Duration, want.Start, want.Duration)
		}
		if n.Pitch != want.Pitch || n.Velocity != want.Velocity {
			t.Errorf("note %d pitch/velocity = (%d, %d), want (%d, %d)", i, n.Pitch, n.Velocity, want.Pitch, want.Velocity)
		}
		if n.Lyric != want.Lyric {
			t.Errorf("note %d lyric = %q, want %q", i, n.Lyric, want.Lyric)
		}
		if n.ID == "" {
			t.Errorf("note %d has no id", i)
		}
	}
}

func TestSMFOverlappingSamePitch(t *testing.T) {
	song := rulla.Song{
		BPM:           120,
		TimeSignature: rulla.TimeSignature{Numerator: 4, Denominator: 4},
		Notes: rulla.NoteList{
			{ID: "a", Start: 0, Duration: 80, Pitch: 60, Velocity: 100},
			{ID: "b", Start: 40, Duration: 80, Pitch: 60, Velocity: 100},
		},
	}
	var buf bytes.Buffer
	if err := rulla.WriteSMF(song, &buf); err != nil {
		t.Fatalf("WriteSMF failed: %v", err)
	}
	got, err := rulla.ReadSMF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSMF failed: %v", err)
	}
	if len(got.Notes) != 2 {
		t.Fatalf("note count = %d, want 2", len(got.Notes))
	}
	var total float64
	for _, n := range got.Notes {
		total += n.Duration
	}
	// total sounding time survives even if the off events pair up the other
	// way around
	if total != 160 {
		t.Errorf("total duration = %v, want 160", total)
	}
}

func TestWriteSMFClampsZeroVelocity(t *testing.T) {
	song := rulla.Song{
		BPM:           120,
		TimeSignature: rulla.TimeSignature{Numerator: 4, Denominator: 4},
		Notes:         rulla.NoteList{{ID: "a", Start: 0, Duration: 80, Pitch: 60, Velocity: 0}},
	}
	var buf bytes.Buffer
	if err := rulla.WriteSMF(song, &buf); err != nil {
		t.Fatalf("WriteSMF failed: %v", err)
	}
	got, err := rulla.ReadSMF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSMF failed: %v", err)
	}
	if len(got.Notes) != 1 || got.Notes[0].Velocity != 1 {
		t.Fatalf("zero velocity must be written as 1, got %+v", got.Notes)
	}
}

func TestReadSMFGarbage(t *testing.T) {
	if _, err := rulla.ReadSMF(bytes.NewReader([]byte("not a midi file at all"))); err == nil {
		t.Fatalf("garbage input must return an error")
	}
}
