package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptions reads a YAML options file on top of DefaultOptions. Fields not
// present in the file keep their default values; unknown keys are rejected so
// a typo does not silently fall back to a default.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	f, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("open options file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("decode options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("options %s: %w", path, err)
	}
	return opts, nil
}

// WriteOptions persists opts as YAML, e.g. to seed a config file from
// DefaultOptions.
func WriteOptions(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create options file: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(opts); err != nil {
		f.Close()
		return fmt.Errorf("encode options: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode options: %w", err)
	}
	return f.Close()
}
