package render

import (
	"context"

	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/surface"
)

// Renderer draws one fractal family onto a surface.
//
// Render sizes the surface from the geometry bounds and issues every drawing
// primitive before returning; there is no retained scene. A missing surface
// is tolerated: implementations log a warning and return nil.
type Renderer interface {
	Name() string
	Family() geometry.Family
	Render(ctx context.Context, target surface.Surface, geom geometry.Geometry) error
}
