package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// pathsFile is the per-user record of the last-used conversion paths,
// kept in the home directory so the CLI can offer them as defaults on
// the next run.
const pathsFile = ".deckgen_paths.json"

// Paths remembers the inputs of the most recent conversion.
type Paths struct {
	LastDocument string `json:"last_document,omitempty"`
	LastTemplate string `json:"last_template,omitempty"`
	LastOutput   string `json:"last_output,omitempty"`
	FontName     string `json:"font_name,omitempty"`
}

func pathsLocation() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, pathsFile), nil
}

// LoadPaths reads the remembered paths. A missing or unreadable record
// yields an empty Paths, never an error; the record is a convenience.
func LoadPaths() Paths {
	loc, err := pathsLocation()
	if err != nil {
		return Paths{}
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		return Paths{}
	}
	var p Paths
	if err := json.Unmarshal(data, &p); err != nil {
		return Paths{}
	}
	return p
}

// SavePaths persists the record. Errors are returned so the caller can
// log them, but a failed save never fails a conversion.
func SavePaths(p Paths) error {
	loc, err := pathsLocation()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode paths record: %w", err)
	}
	if err := os.WriteFile(loc, data, 0o600); err != nil {
		return fmt.Errorf("write paths record: %w", err)
	}
	return nil
}
