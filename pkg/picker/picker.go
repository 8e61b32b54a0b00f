// Package picker asks the user for a fractal family and example in the
// terminal.
package picker

import (
	"context"
	"fmt"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// Option configures a Picker.
type Option func(*Picker)

// WithPromptDriver swaps the terminal driver, mostly for tests.
func WithPromptDriver(driver PromptDriver) Option {
	return func(p *Picker) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithPageSize sets how many choices are visible at once.
func WithPageSize(size int) Option {
	return func(p *Picker) {
		p.pageSize = size
	}
}

// Picker prompts for families and examples.
type Picker struct {
	driver   PromptDriver
	pageSize int
}

// New returns a picker backed by survey unless WithPromptDriver is given.
func New(options ...Option) *Picker {
	p := &Picker{pageSize: 10}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver(nil)
	}
	return p
}

// Family asks for one of families. A single family is returned without
// prompting.
func (p *Picker) Family(ctx context.Context, families []geometry.Family, current geometry.Family) (geometry.Family, error) {
	switch len(families) {
	case 0:
		return "", ErrNoChoices
	case 1:
		return families[0], nil
	}

	labels := make([]string, len(families))
	codes := make([]string, len(families))
	def := 0
	for i, family := range families {
		labels[i] = family.Label()
		codes[i] = string(family)
		if family == current {
			def = i
		}
	}
	idx, err := p.driver.Select(ctx, SelectConfig{
		Message:      "Fractal family",
		Options:      labels,
		Descriptions: codes,
		DefaultIndex: def,
		PageSize:     p.pageSize,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(families) {
		return "", fmt.Errorf("picker: invalid family choice %d", idx)
	}
	return families[idx], nil
}

// Example asks for an example of the dataset, in dataset order. current is
// preselected when present.
func (p *Picker) Example(ctx context.Context, family geometry.Family, examples *dataset.Dataset, current string) (string, error) {
	if examples == nil || examples.Len() == 0 {
		return "", ErrNoChoices
	}
	names := examples.Names()
	def := 0
	for i, name := range names {
		if name == current {
			def = i
		}
	}
	idx, err := p.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("%s example", family.Label()),
		Options:      names,
		DefaultIndex: def,
		PageSize:     p.pageSize,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("picker: invalid example choice %d", idx)
	}
	if err := p.driver.Info(ctx, fmt.Sprintf("rendering %s/%s", family, names[idx])); err != nil {
		return "", err
	}
	return names[idx], nil
}
