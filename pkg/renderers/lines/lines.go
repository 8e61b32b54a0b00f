// Package lines renders the line family: a connected path with pen-up
// points, colored by a rainbow gradient that advances with sequence index.
package lines

import (
	"context"
	"errors"

	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/logging"
	"github.com/goliatone/go-fractalview/pkg/render"
	"github.com/goliatone/go-fractalview/pkg/surface"
)

// Name is the renderer identifier.
const Name = "lines"

// Renderer implements render.Renderer for geometry.FamilyLines.
type Renderer struct {
	opts render.Options
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a line renderer.
func New(options ...render.Option) *Renderer {
	return &Renderer{opts: render.Apply(options...)}
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Family() geometry.Family { return geometry.FamilyLines }

// Render draws geom onto target. The context is only checked before drawing
// starts.
func (r *Renderer) Render(ctx context.Context, target surface.Surface, geom geometry.Geometry) error {
	if ctx == nil {
		return errors.New("lines: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Draw(target, geom.Bounds, geom.Points)
	return nil
}

// Draw sizes target from bounds and strokes one segment per paintable point,
// from point i-1 to point i. A non-paintable point leaves a gap; the path is
// never bridged across it.
func (r *Renderer) Draw(target surface.Surface, bounds geometry.Bounds, points []geometry.Point) {
	if surface.Missing(target) {
		logging.Or(r.opts.Logger).Warn("surface is nil", "renderer", Name)
		return
	}

	width, height := bounds.PixelSize()
	target.Resize(width, height)

	// one point has no segments and would make the hue step divide by zero
	count := len(points)
	if count < 2 {
		return
	}

	step := 255 / float64(count-1)
	offsetX, offsetY := -bounds.MinX, -bounds.MinY

	target.Save()
	defer target.Restore()
	target.Translate(geometry.Margin, geometry.Margin)

	for i := 1; i < count; i++ {
		if !points[i].Paintable() {
			continue
		}
		from, to := points[i-1], points[i]
		target.StrokeLine(
			from.X+offsetX, from.Y+offsetY,
			to.X+offsetX, to.Y+offsetY,
			render.Hue(step*float64(i)),
		)
	}
}

var defaultRenderer = New()

// Draw renders with a default renderer that logs through pkg/logging.
func Draw(target surface.Surface, bounds geometry.Bounds, points []geometry.Point) {
	defaultRenderer.Draw(target, bounds, points)
}
