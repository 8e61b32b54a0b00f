// Package generator turns example params into geometry. Fractal generation
// itself happens elsewhere; Precomputed reads the geometry an external
// generator already produced.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// ErrNoGeometry is returned when params neither reference nor embed
// geometry.
var ErrNoGeometry = errors.New("generator: example has no geometry")

// Generator produces the geometry for a named example.
type Generator interface {
	Generate(ctx context.Context, family geometry.Family, name string, params dataset.Params) (geometry.Geometry, error)
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, family geometry.Family, name string, params dataset.Params) (geometry.Geometry, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, family geometry.Family, name string, params dataset.Params) (geometry.Geometry, error) {
	return f(ctx, family, name, params)
}

// Precomputed resolves geometry documents referenced by params.
//
// An example either names a document through its `geometry` param, a slash
// separated path inside the file system the generator was created with, or
// carries `bounds` and `points` inline.
type Precomputed struct {
	fsys fs.FS
}

var _ Generator = (*Precomputed)(nil)

// NewPrecomputed returns a generator reading geometry documents from fsys.
// A nil fsys only supports inline geometry.
func NewPrecomputed(fsys fs.FS) *Precomputed {
	return &Precomputed{fsys: fsys}
}

// Generate implements Generator.
func (p *Precomputed) Generate(ctx context.Context, family geometry.Family, name string, params dataset.Params) (geometry.Geometry, error) {
	if ctx == nil {
		return geometry.Geometry{}, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return geometry.Geometry{}, err
	}

	data, err := p.document(name, params)
	if err != nil {
		return geometry.Geometry{}, err
	}

	geom, err := geometry.Decode(data, family)
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("generator: %s: %w", name, err)
	}
	if geom.Family != family {
		return geometry.Geometry{}, fmt.Errorf("generator: %s: geometry is %q, expected %q", name, geom.Family, family)
	}
	return geom, nil
}

func (p *Precomputed) document(name string, params dataset.Params) ([]byte, error) {
	if ref := params.Text("geometry"); ref != "" {
		if p.fsys == nil {
			return nil, fmt.Errorf("generator: %s: no file system to read %q from", name, ref)
		}
		clean := path.Clean(strings.TrimPrefix(ref, "./"))
		if !fs.ValidPath(clean) {
			return nil, fmt.Errorf("generator: %s: invalid geometry path %q", name, ref)
		}
		data, err := fs.ReadFile(p.fsys, clean)
		if err != nil {
			return nil, fmt.Errorf("generator: %s: read geometry: %w", name, err)
		}
		return data, nil
	}

	if _, ok := params.Field("points"); ok {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("generator: %s: encode inline geometry: %w", name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("generator: %s: %w", name, ErrNoGeometry)
}
