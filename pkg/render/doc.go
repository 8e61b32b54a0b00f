// Package render defines the renderer contract shared by the fractal
// families, a family keyed registry and the color helpers used to build the
// per-point gradients.
package render
