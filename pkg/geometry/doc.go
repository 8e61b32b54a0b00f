// Package geometry describes the precomputed fractal geometry consumed by the
// renderers: a bounding box plus an ordered point sequence whose per-point
// metadata depends on the fractal family.
//
// Geometry is produced by an external generator and is read-only once it
// reaches a renderer. Nothing in this package validates that points fall
// inside their bounds; the generator owns that invariant.
package geometry
