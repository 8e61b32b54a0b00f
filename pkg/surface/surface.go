// Package surface defines the raster target the fractal renderers draw on.
//
// The contract mirrors the small subset of a 2-D canvas the renderers need:
// sizing, a save/restore transform stack, and three drawing primitives.
// Implementations live in sub-packages (raster, braille); tests use
// testsupport.RecordingSurface.
package surface

import (
	"image/color"
	"reflect"
)

// Surface is a 2-D drawing target with an affine transform stack.
//
// Resize discards any previous content and resets the transform, the same way
// assigning a canvas width or height does. Coordinates passed to the drawing
// primitives are in user space and go through the current transform.
type Surface interface {
	Resize(width, height int)
	Width() int
	Height() int

	Save()
	Restore()
	Translate(x, y float64)
	Scale(x, y float64)

	// FillBackground paints the whole surface, ignoring the transform.
	FillBackground(c color.Color)
	// StrokeLine draws a single straight segment.
	StrokeLine(x1, y1, x2, y2 float64, c color.Color)
	// FillRect fills an axis aligned rectangle.
	FillRect(x, y, w, h float64, c color.Color)
}

// Missing reports whether s is absent: a nil interface or a typed nil
// pointer.
func Missing(s Surface) bool {
	if s == nil {
		return true
	}
	rv := reflect.ValueOf(s)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
