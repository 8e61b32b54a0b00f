// Package fill renders the area-fill family: a point cloud on a black
// backdrop where each point's hue identifies the transform that produced it.
package fill

import (
	"context"
	"errors"

	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/logging"
	"github.com/goliatone/go-fractalview/pkg/render"
	"github.com/goliatone/go-fractalview/pkg/surface"
)

// Name is the renderer identifier.
const Name = "fill"

// Renderer implements render.Renderer for geometry.FamilyFill.
type Renderer struct {
	opts render.Options
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs an area-fill renderer.
func New(options ...render.Option) *Renderer {
	return &Renderer{opts: render.Apply(options...)}
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Family() geometry.Family { return geometry.FamilyFill }

// Render draws geom onto target using geom.SourceCount for hue
// normalisation.
func (r *Renderer) Render(ctx context.Context, target surface.Surface, geom geometry.Geometry) error {
	if ctx == nil {
		return errors.New("fill: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Draw(target, geom.Bounds, geom.Points, geom.SourceCount)
	return nil
}

// Draw sizes target from bounds, paints it black, flips the y axis so the
// generator's y-up coordinates land inside a 10 unit margin, and fills one
// unit square per point.
//
// After the transform, MinX maps to x=10, MaxY to y=10 and MinY to
// y=height-10.
func (r *Renderer) Draw(target surface.Surface, bounds geometry.Bounds, points []geometry.Point, sourceCount int) {
	if surface.Missing(target) {
		logging.Or(r.opts.Logger).Warn("surface is nil", "renderer", Name)
		return
	}

	width, height := bounds.PixelSize()
	target.Resize(width, height)
	target.FillBackground(render.Background)

	if sourceCount <= 0 {
		sourceCount = 1
	}
	step := 255 / float64(sourceCount)

	target.Save()
	defer target.Restore()
	target.Translate(-bounds.MinX+geometry.Margin, bounds.MinY+float64(target.Height())-geometry.Margin)
	target.Scale(1, -1)

	for _, point := range points {
		target.FillRect(point.X, point.Y, 1, 1, render.Hue(step*float64(point.SourceIndex())))
	}
}

var defaultRenderer = New()

// Draw renders with a default renderer that logs through pkg/logging.
func Draw(target surface.Surface, bounds geometry.Bounds, points []geometry.Point, sourceCount int) {
	defaultRenderer.Draw(target, bounds, points, sourceCount)
}
