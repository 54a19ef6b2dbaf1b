package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// Preferences holds user-level view state separate from the graph data
// itself, so hiding a graph never touches its record.
type Preferences struct {
	HiddenGraphIDs []string `json:"hiddenGraphIds"`
}

// ModelSelection persists the last chosen generation model.
type ModelSelection struct {
	SelectedModel string `json:"selectedModel"`
}

// Cursor persists the current navigation position into the visible
// sequence.
type Cursor struct {
	CurrentIndex int `json:"currentIndex"`
}

// readJSONFile decodes a JSON file into v. Absent files and malformed JSON
// both leave v at its zero value: persisted state can be hand-edited or
// corrupted and must never fail the load path.
func readJSONFile(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring malformed %s: %v\n", path, err)
	}
}

// writeJSONFile encodes v to a JSON file.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadPreferences loads user preferences, defaulting to empty.
func ReadPreferences(path string) *Preferences {
	p := &Preferences{}
	readJSONFile(path, p)
	return p
}

// WritePreferences saves user preferences.
func WritePreferences(path string, p *Preferences) error {
	return writeJSONFile(path, p)
}

// ReadModelSelection loads the persisted model choice, defaulting to empty.
func ReadModelSelection(path string) *ModelSelection {
	m := &ModelSelection{}
	readJSONFile(path, m)
	return m
}

// WriteModelSelection saves the model choice.
func WriteModelSelection(path string, m *ModelSelection) error {
	return writeJSONFile(path, m)
}

// ReadCursor loads the persisted navigation position. Returns -1 when no
// valid position is stored, so callers can distinguish "never saved".
func ReadCursor(path string) int {
	c := &Cursor{CurrentIndex: -1}
	readJSONFile(path, c)
	return c.CurrentIndex
}

// WriteCursor saves the navigation position.
func WriteCursor(path string, index int) error {
	return writeJSONFile(path, &Cursor{CurrentIndex: index})
}
