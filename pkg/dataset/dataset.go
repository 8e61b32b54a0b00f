// Package dataset loads example datasets: ordered mappings from example name
// to the parameters handed to a geometry generator.
//
// Files may be JSON or YAML. Key order is kept at every level so example
// lists and configuration panels show entries in file order.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a dataset has no example with the given name.
var ErrNotFound = errors.New("dataset: example not found")

// Params are the opaque generator parameters of one example.
type Params = *Object

// Dataset is an immutable, ordered set of named examples.
type Dataset struct {
	dir     string
	entries *Object
}

// Parse decodes a JSON or YAML document whose top level maps example names to
// parameter mappings. Documents starting with '{' are read as JSON.
func Parse(data []byte) (*Dataset, error) {
	value, err := decode(data)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return &Dataset{entries: NewObject()}, nil
	}
	root, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("dataset: top level must be a mapping of example names, got %T", value)
	}
	for _, name := range root.Keys() {
		entry, _ := root.Field(name)
		if _, ok := entry.(*Object); !ok {
			return nil, fmt.Errorf("dataset: example %q must be a mapping, got %T", name, entry)
		}
	}
	return &Dataset{entries: root}, nil
}

func decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}
	return decodeNode(&doc)
}

// Load reads and parses the dataset at path. Relative references inside the
// examples resolve against the file's directory, see Dir.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	ds.dir = filepath.Dir(path)
	return ds, nil
}

// New builds a dataset from entries, keeping their order. Later entries with
// a repeated name replace the earlier params in place.
func New(entries ...Entry) *Dataset {
	root := NewObject()
	for _, entry := range entries {
		params := entry.Params
		if params == nil {
			params = NewObject()
		}
		root.Set(entry.Name, params)
	}
	return &Dataset{entries: root}
}

// Entry is a named example used with New.
type Entry struct {
	Name   string
	Params Params
}

// WithDir returns a copy of the dataset resolving relative references
// against dir.
func (d *Dataset) WithDir(dir string) *Dataset {
	clone := *d
	clone.dir = dir
	return &clone
}

// Dir is the directory the dataset was loaded from, empty for parsed data.
func (d *Dataset) Dir() string {
	return d.dir
}

// Names returns the example names in file order.
func (d *Dataset) Names() []string {
	return d.entries.Keys()
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return d.entries.Len()
}

// Get returns the params for name.
func (d *Dataset) Get(name string) (Params, bool) {
	v, ok := d.entries.Field(name)
	if !ok {
		return nil, false
	}
	params, ok := v.(*Object)
	return params, ok
}

// Lookup is Get returning ErrNotFound for unknown names.
func (d *Dataset) Lookup(name string) (Params, error) {
	params, ok := d.Get(name)
	if !ok {
		return nil, fmt.Errorf("dataset: %q: %w", name, ErrNotFound)
	}
	return params, nil
}

// First returns the first example name.
func (d *Dataset) First() (string, bool) {
	names := d.entries.Keys()
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// Keys implements tmpl.Ordered.
func (d *Dataset) Keys() []string {
	return d.Names()
}

// Field implements tmpl.Ordered.
func (d *Dataset) Field(key string) (any, bool) {
	return d.entries.Field(key)
}

// MarshalJSON encodes the examples in file order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return d.entries.MarshalJSON()
}
