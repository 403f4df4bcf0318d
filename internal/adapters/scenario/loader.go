// Package scenario loads guild scenarios (traits, locations, adventurers,
// quests and the starting world) from YAML.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/guild/internal/models"
)

// Parse decodes a scenario from YAML bytes. Unknown keys are rejected so a
// misspelt stat does not silently become zero.
func Parse(data []byte) (*models.Scenario, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("scenario: payload is empty: %w", models.ErrInvalidArgument)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc models.Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario: expected a single document: %w", models.ErrInvalidArgument)
	}
	return &sc, nil
}

// LoadReader reads scenario data from an io.Reader.
func LoadReader(r io.Reader) (*models.Scenario, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("scenario: read: %w", err)
	}
	return Parse(content)
}

// LoadFile loads a scenario from path.
func LoadFile(path string) (*models.Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	sc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return sc, nil
}
