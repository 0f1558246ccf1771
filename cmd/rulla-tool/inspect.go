package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuottila/rulla"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect song",
	Short: "Print a summary of a song file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		s := statsOf(song)
		if s.Title != "" {
			fmt.Printf("title:          %s\n", s.Title)
		}
		if s.Author != "" {
			fmt.Printf("author:         %s\n", s.Author)
		}
		fmt.Printf("bpm:            %d\n", s.BPM)
		fmt.Printf("time signature: %s\n", s.TimeSignature)
		fmt.Printf("notes:          %d\n", s.Notes)
		fmt.Printf("lyrics:         %d\n", s.Lyrics)
		fmt.Printf("length:         %.2f beats (%.1f s)\n", s.Beats, s.Seconds)
		if s.Notes > 0 {
			fmt.Printf("pitch range:    %s - %s\n", s.LowestPitch, s.HighestPitch)
		}
		return nil
	},
}

type songStats struct {
	Title         string  `json:"title,omitempty"`
	Author        string  `json:"author,omitempty"`
	BPM           int     `json:"bpm"`
	TimeSignature string  `json:"timeSignature"`
	Notes         int     `json:"notes"`
	Lyrics        int     `json:"lyrics"`
	Beats         float64 `json:"beats"`
	Seconds       float64 `json:"seconds"`
	LowestPitch   string  `json:"lowestPitch,omitempty"`
	HighestPitch  string  `json:"highestPitch,omitempty"`
}

func statsOf(song rulla.Song) songStats {
	s := songStats{
		Title:         song.Title,
		Author:        song.Author,
		BPM:           song.BPM,
		TimeSignature: song.TimeSignature.String(),
		Notes:         len(song.Notes),
	}
	lo, hi := 127, 0
	for _, n := range song.Notes {
		if n.Lyric != "" {
			s.Lyrics++
		}
		lo = min(lo, n.Pitch)
		hi = max(hi, n.Pitch)
	}
	s.Beats = song.Notes.MaxEnd() / rulla.PixelsPerBeat
	s.Seconds = s.Beats * 60 / float64(song.BPM)
	if len(song.Notes) > 0 {
		s.LowestPitch = rulla.PitchName(lo)
		s.HighestPitch = rulla.PitchName(hi)
	}
	return s
}
