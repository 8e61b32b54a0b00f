package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Background is the opaque backdrop used by point-cloud renderers.
var Background color.Color = color.RGBA{A: 0xff}

// Hue returns the fully saturated, mid lightness color for a hue in degrees,
// the equivalent of CSS hsl(h, 100%, 50%).
func Hue(degrees float64) color.Color {
	return colorful.Hsl(degrees, 1, 0.5).Clamped()
}
