// Package seed loads the initial roster from a JSON file at startup.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage"
)

// LoadError reports that the roster file could not be used. The server must
// not start without its initial players.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load players from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a JSON array of players (ids included) from path.
// Any failure is returned as a *LoadError.
func Load(path string) ([]models.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	players, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return players, nil
}

// Parse decodes a JSON array of players and checks ids and squad numbers are unique.
func Parse(data []byte) ([]models.Player, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("failed to parse players: empty document")
	}

	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse players: %w", err)
	}
	// A literal null decodes to a nil slice; treat it as malformed, not empty.
	if objects == nil {
		return nil, fmt.Errorf("failed to parse players: expected a JSON array")
	}
	for i, obj := range objects {
		if missing := models.MissingFields(obj, true); len(missing) > 0 {
			return nil, fmt.Errorf("player at index %d: missing fields %s", i, strings.Join(missing, ", "))
		}
	}

	players := make([]models.Player, len(objects))
	for i, obj := range objects {
		p, err := models.PlayerFromFields(obj)
		if err != nil {
			return nil, fmt.Errorf("player at index %d: %w", i, err)
		}
		players[i] = p
	}

	if err := storage.CheckUnique(players); err != nil {
		return nil, err
	}
	return players, nil
}
