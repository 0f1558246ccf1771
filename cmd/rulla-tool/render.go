package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuottila/rulla"
)

var (
	renderTemplate string
	renderOut      string
)

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "template file; the built in note listing when omitted")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output file; stdout when omitted")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [flags] song",
	Short: "Render a song through a text template",
	Long: `Render a song through a text template.

The template sees the song with its fields as is and has the sprig
function library available, plus "beats" converting time units to beats
and "pitchname" formatting a pitch number as a note name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		templateText := ""
		if renderTemplate != "" {
			b, err := os.ReadFile(renderTemplate)
			if err != nil {
				return fmt.Errorf("could not read template: %w", err)
			}
			templateText = string(b)
		}
		out := os.Stdout
		if renderOut != "" {
			f, err := os.Create(renderOut)
			if err != nil {
				return fmt.Errorf("could not create %s: %w", renderOut, err)
			}
			defer f.Close()
			out = f
		}
		return rulla.ExportText(song, templateText, out)
	},
}
