// Package frequency provides the curated occurrence counts used to rank
// lexicon entries.
package frequency

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// DefaultCount is the frequency assumed for identifiers with no observation.
const DefaultCount = 5

//go:embed curated.toml
var curatedTOML string

// Observation is one (identifier, count) pair from a frequency file.
type Observation struct {
	ID    string `toml:"id" validate:"required"`
	Count int    `toml:"count" validate:"min=0"`
}

type observationFile struct {
	Observations []Observation `toml:"observations" validate:"dive"`
}

// Table maps lexicon identifiers to occurrence counts.
type Table map[string]int

// Lookup returns the count for id, or DefaultCount when id is absent.
func (t Table) Lookup(id string) int {
	if count, ok := t[id]; ok {
		return count
	}
	return DefaultCount
}

// Curated returns the observations shipped with the binary, in file order.
func Curated() ([]Observation, error) {
	obs, err := Parse(curatedTOML)
	if err != nil {
		return nil, fmt.Errorf("curated frequency table: %w", err)
	}
	return obs, nil
}

// LoadFile reads observations from a TOML file with the same shape as the
// curated table.
func LoadFile(path string) ([]Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frequency file: %w", err)
	}
	obs, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}

// Parse decodes and validates a TOML observation list.
func Parse(data string) ([]Observation, error) {
	var file observationFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid observation: %w", err)
	}
	return file.Observations, nil
}

// Build folds observation lists into a Table. Lists are applied in order and
// a repeated identifier keeps its last count. The repeated identifiers are
// returned in order of first repetition.
func Build(lists ...[]Observation) (Table, []string) {
	table := make(Table)
	var duplicates []string
	reported := make(map[string]bool)

	for _, list := range lists {
		for _, o := range list {
			if _, exists := table[o.ID]; exists && !reported[o.ID] {
				duplicates = append(duplicates, o.ID)
				reported[o.ID] = true
			}
			table[o.ID] = o.Count
		}
	}

	return table, duplicates
}
