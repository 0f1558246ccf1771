package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/cmd"
)

var (
	exportFormat string
	exportOut    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "smf", "output format: smf, wav or wav16")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file; defaults to the input with the extension changed")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [flags] song",
	Short: "Export a song as a standard MIDI file or a wav file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		var data []byte
		var ext string
		switch exportFormat {
		case "smf":
			ext = ".mid"
			var buf bytes.Buffer
			if err := rulla.WriteSMF(song, &buf); err != nil {
				return err
			}
			data = buf.Bytes()
		case "wav", "wav16":
			ext = ".wav"
			buffer, err := rulla.Play(cmd.Synthers[0], song, nil)
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}
			data, err = rulla.Wav(buffer, exportFormat == "wav16")
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q", exportFormat)
		}
		out := exportOut
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ext
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("could not write %s: %w", out, err)
		}
		fmt.Printf("wrote %s\n", out)
		return nil
	},
}
