package rulla

import (
	_ "embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
)

//go:embed export.tmpl
var defaultExportTemplate string

// ExportText renders the song through a text template, for piping note data
// into other tools. The template sees the Song with its fields as is and has
// the sprig function map available, plus "beats" converting time units to
// beats and "pitchname" formatting a pitch. An empty templateText selects
// the built in listing.
func ExportText(song Song, templateText string, w io.Writer) error {
	if templateText == "" {
		templateText = defaultExportTemplate
	}
	funcs := template.FuncMap{
		"beats":     func(units float64) float64 { return units / PixelsPerBeat },
		"pitchname": PitchName,
	}
	tmpl, err := template.New("export").Funcs(sprig.TxtFuncMap()).Funcs(funcs).Parse(templateText)
	if err != nil {
		return fmt.Errorf(`could not parse export template: %v`, err)
	}
	if err := tmpl.Execute(w, song.Normalized()); err != nil {
		return fmt.Errorf(`could not execute export template: %v`, err)
	}
	return nil
}
