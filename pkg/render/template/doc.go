// Package template defines the page template seam used to compose the viewer
// shell. The gotemplate subpackage provides the pongo2 backed engine.
package template
