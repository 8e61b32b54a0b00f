// Package raster implements surface.Surface on top of a gogpu/gg software
// context, producing PNG output.
package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"github.com/goliatone/go-fractalview/pkg/surface"
)

const (
	// DefaultWidth and DefaultHeight match an unsized HTML canvas.
	DefaultWidth  = 300
	DefaultHeight = 150
)

// Option configures a raster surface.
type Option func(*Surface)

// WithLineWidth sets the stroke width used by StrokeLine. Values <= 0 are
// ignored.
func WithLineWidth(width float64) Option {
	return func(s *Surface) {
		if width > 0 {
			s.lineWidth = width
		}
	}
}

// WithSize sets the initial surface size.
func WithSize(width, height int) Option {
	return func(s *Surface) {
		s.width, s.height = width, height
	}
}

// Surface draws into a gg.Context.
type Surface struct {
	dc        *gg.Context
	width     int
	height    int
	lineWidth float64
	err       error
}

var _ surface.Surface = (*Surface)(nil)

// New returns a surface sized to the canvas defaults unless WithSize is given.
func New(options ...Option) *Surface {
	s := &Surface{
		width:     DefaultWidth,
		height:    DefaultHeight,
		lineWidth: 1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.Resize(s.width, s.height)
	return s
}

// Resize reallocates the backing context. Previous content and transforms are
// discarded.
func (s *Surface) Resize(width, height int) {
	if s.dc != nil {
		_ = s.dc.Close()
	}
	s.width, s.height = clampDim(width), clampDim(height)
	s.dc = gg.NewContext(s.width, s.height)
	s.err = nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

func (s *Surface) Save()    { s.dc.Push() }
func (s *Surface) Restore() { s.dc.Pop() }

func (s *Surface) Translate(x, y float64) { s.dc.Translate(x, y) }
func (s *Surface) Scale(x, y float64)     { s.dc.Scale(x, y) }

// FillBackground clears the whole pixmap to c.
func (s *Surface) FillBackground(c color.Color) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

// StrokeLine strokes one segment with the configured line width.
func (s *Surface) StrokeLine(x1, y1, x2, y2 float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(s.lineWidth)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.keep(s.dc.Stroke())
}

// FillRect fills a rectangle straight into the pixmap. Unit squares are the
// common case, so the path rasterizer is bypassed.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.FillRectCPU(x, y, w, h, gg.FromColor(c))
}

// Err returns the first rasterizer error since the last Resize.
func (s *Surface) Err() error {
	return s.err
}

// Image returns the rendered image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// Close releases the backing context.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	return s.dc.Close()
}

func (s *Surface) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

func clampDim(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
