// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/ecn-parties/pkg/types"
)

// SaveJSON writes v to path as two-space indented UTF-8 JSON. Non-ASCII
// text (Devanagari) is written as-is, not escaped. The parent directory is
// created if needed.
func SaveJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveParties writes the records file. A nil slice is written as [].
func SaveParties(path string, parties []types.Party) error {
	if parties == nil {
		parties = []types.Party{}
	}
	return SaveJSON(path, parties)
}

// LoadParties reads a records file written by SaveParties.
func LoadParties(path string) ([]types.Party, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var parties []types.Party
	if err := json.Unmarshal(data, &parties); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parties, nil
}
