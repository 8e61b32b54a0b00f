// Package fractalview renders precomputed fractal geometry. It bundles a set
// of line-family (rule expansion) and fill-family (iterated map) examples and
// wires them into a viewer.Viewer.
package fractalview

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/generator"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/logging"
	"github.com/goliatone/go-fractalview/pkg/surface/raster"
	"github.com/goliatone/go-fractalview/pkg/viewer"
)

// SetLogger installs the logger used by every fractalview package. Nil
// silences logging again.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the active package logger.
func Logger() *slog.Logger {
	return logging.Logger()
}

// LoadExamples reads the built-in dataset of family.
func LoadExamples(family geometry.Family) (*dataset.Dataset, error) {
	raw, err := fs.ReadFile(ExamplesFS(), string(family)+".json")
	if err != nil {
		return nil, fmt.Errorf("fractalview: examples %s: %w", family, err)
	}
	ds, err := dataset.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("fractalview: examples %s: %w", family, err)
	}
	return ds, nil
}

// DefaultOptions returns viewer options registering the built-in examples of
// both families.
func DefaultOptions() ([]viewer.Option, error) {
	gen := generator.NewPrecomputed(ExamplesFS())
	var options []viewer.Option
	for _, family := range geometry.Families() {
		ds, err := LoadExamples(family)
		if err != nil {
			return nil, err
		}
		options = append(options, viewer.WithFamily(family, ds, gen))
	}
	return options, nil
}

// NewViewer returns a viewer over the built-in examples. options are applied
// after the defaults, so WithFamily replaces a built-in dataset.
func NewViewer(options ...viewer.Option) (*viewer.Viewer, error) {
	defaults, err := DefaultOptions()
	if err != nil {
		return nil, err
	}
	return viewer.New(append(defaults, options...)...)
}

// RenderPNG renders a built-in example and writes it to w as PNG. It is the
// simplest entry point for callers that just want an image.
func RenderPNG(ctx context.Context, w io.Writer, family geometry.Family, name string, options ...viewer.Option) error {
	v, err := NewViewer(options...)
	if err != nil {
		return err
	}
	if _, ok := lookup(v, family, name); !ok {
		return fmt.Errorf("fractalview: %s/%s: %w", family, name, dataset.ErrNotFound)
	}

	canvas := raster.New()
	defer canvas.Close()
	if err := v.Render(ctx, family, name, canvas); err != nil {
		return err
	}
	if err := canvas.Err(); err != nil {
		return fmt.Errorf("fractalview: rasterize %s/%s: %w", family, name, err)
	}
	if err := canvas.EncodePNG(w); err != nil {
		return fmt.Errorf("fractalview: encode png: %w", err)
	}
	return nil
}

// GeneratePage composes the HTML page for a built-in example.
func GeneratePage(ctx context.Context, family geometry.Family, name string, options ...viewer.Option) (string, error) {
	v, err := NewViewer(options...)
	if err != nil {
		return "", err
	}
	return v.Page(ctx, family, name)
}

func lookup(v *viewer.Viewer, family geometry.Family, name string) (dataset.Params, bool) {
	ds, ok := v.Examples(family)
	if !ok {
		return nil, false
	}
	return ds.Get(name)
}
