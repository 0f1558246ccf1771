package gioui

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReadConfig decodes the embedded default config into target and then overlays
// whatever the user has in their own copy of the file. The defaults are
// decoded with KnownFields so stale keys get caught at startup.
func ReadConfig(defaultConfig []byte, filename string, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(defaultConfig))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		panic(fmt.Errorf("failed to unmarshal default %s: %w", filename, err))
	}
	if err := ReadCustomConfig(filename, target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// ReadCustomConfig modifies the target argument, i.e. needs a pointer
func ReadCustomConfig(filename string, target any) error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(configDir, "rulla", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, target)
}
