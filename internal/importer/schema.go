// Package importer reads agenda item files for bulk import.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemFile is the top-level YAML structure of an agenda item import.
type ItemFile struct {
	Defaults *ItemDefaults `yaml:"defaults,omitempty"`
	Items    []ItemEntry   `yaml:"items"`
}

// ItemDefaults apply to every entry that leaves the field unset.
type ItemDefaults struct {
	DurationMin *int `yaml:"duration_min,omitempty"`
}

// ItemEntry is one agenda item in the import file. Either Topic or
// DocumentID must be given.
type ItemEntry struct {
	Topic       string `yaml:"topic,omitempty"`
	DocumentID  *int64 `yaml:"document_id,omitempty"`
	Order       *int   `yaml:"order,omitempty"`
	DurationMin *int   `yaml:"duration_min,omitempty"`
}

// LoadItemFile reads and parses an item import file.
func LoadItemFile(path string) (*ItemFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseItemFile(f)
}

// ParseItemFile decodes an item file, rejecting unknown keys.
func ParseItemFile(r io.Reader) (*ItemFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file ItemFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &file, nil
}
