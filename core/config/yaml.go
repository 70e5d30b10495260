package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAML is a Source whose values are parsed from a YAML document.
type YAML struct {
	r io.Reader
}

// FromYAML returns a Source applying the YAML document read from r.
// r is closed after reading if it is an io.Closer.
func FromYAML(r io.Reader) YAML {
	return YAML{r: r}
}

// InvalidYAMLError occurs if the underlying reader contains invalid YAML.
type InvalidYAMLError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYAMLError) Error() string {
	return fmt.Sprintf("config: invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYAMLError) Unwrap() error {
	return e.Cause
}

// Apply implements Source.
func (src YAML) Apply(store Store) (err error) {
	if c, ok := src.r.(io.Closer); ok {
		defer func() {
			err = errors.Join(err, c.Close())
		}()
	}

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	if err := yaml.Unmarshal(b, &m); err != nil {
		return InvalidYAMLError{Cause: err}
	}
	return Map(m).Apply(store)
}

// File is a Source reading a YAML file when applied.
type File struct {
	path     string
	optional bool
}

// FromYAMLFile returns a Source applying the YAML file at path.
func FromYAMLFile(path string) File {
	return File{path: path}
}

// OptionalYAMLFile is FromYAMLFile that applies nothing when the file does
// not exist.
func OptionalYAMLFile(path string) File {
	return File{path: path, optional: true}
}

// Apply implements Source.
func (src File) Apply(store Store) error {
	f, err := os.Open(src.path)
	if err != nil {
		if src.optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: open %s: %w", src.path, err)
	}
	return FromYAML(f).Apply(store)
}
