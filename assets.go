package fractalview

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-fractalview/pkg/viewer"
)

//go:embed assets/data
var embeddedExamples embed.FS

// ExamplesFS exposes the built-in example datasets (l.json, ifs.json) and
// the precomputed geometry they reference under geometry/.
func ExamplesFS() fs.FS {
	sub, err := fs.Sub(embeddedExamples, "assets/data")
	if err != nil {
		return embeddedExamples
	}
	return sub
}

// EmbeddedTemplates exposes the page templates and the example list markup
// so callers can copy or extend them.
func EmbeddedTemplates() fs.FS {
	return viewer.TemplatesFS()
}
