// Command rulla-tool inspects, converts and renders song files without
// starting the GUI.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/version"
)

var rootCmd = &cobra.Command{
	Use:     "rulla-tool",
	Short:   "Work with rulla song files from the command line",
	Version: version.VersionOrHash,
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

// readSong loads a song from the given path: standard MIDI files are
// recognized from their header, everything else is parsed as json and
// then as yaml.
func readSong(path string) (rulla.Song, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return rulla.Song{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	if bytes.HasPrefix(b, []byte("MThd")) {
		song, err := rulla.ReadSMF(bytes.NewReader(b))
		if err != nil {
			return rulla.Song{}, fmt.Errorf("could not read %s: %w", path, err)
		}
		return song.Normalized(), nil
	}
	var song rulla.Song
	if errJSON := json.Unmarshal(b, &song); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &song); errYaml != nil {
			return rulla.Song{}, fmt.Errorf("could not parse %s as json (%v) or yaml (%v)", path, errJSON, errYaml)
		}
	}
	return song.Normalized(), nil
}
