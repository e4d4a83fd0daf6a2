// Package preset stores parameter state files on disk and reloads them when
// they change.
package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-prism/plugin/state"
)

// Extension is the conventional preset file suffix.
const Extension = ".prism"

// Load reads and decodes a state file.
func Load(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	values, err := state.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, err)
	}

	return values, nil
}

// Save encodes values and replaces path atomically.
func Save(path string, values map[string]float64) error {
	data, err := state.Encode(values)
	if err != nil {
		return fmt.Errorf("preset: %w", err)
	}

	return WriteRaw(path, data)
}

// WriteRaw replaces path with data through a temporary file in the same
// directory.
func WriteRaw(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("preset: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("preset: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("preset: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("preset: %w", err)
	}

	return nil
}
