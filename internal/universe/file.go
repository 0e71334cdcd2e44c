package universe

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wonny/pulse/internal/contracts"
)

// File is the YAML universe document
type File struct {
	Symbols []contracts.UniverseEntry `yaml:"symbols" validate:"required,min=1,dive"`
}

// LoadFile reads a YAML universe.
// KnownFields(true) makes typos fail loudly instead of being ignored.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML universe document
func Parse(data []byte) (*Static, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode universe file: %w", err)
	}

	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid universe file: %w", err)
	}

	return FromEntries(f.Symbols), nil
}
