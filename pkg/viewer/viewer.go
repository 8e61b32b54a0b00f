// Package viewer ties the pieces together: it looks up an example by family
// and name, asks a generator for its geometry, dispatches to the family
// renderer and keeps the config panel text. It also renders the example
// lists from micro-templates and composes the HTML page.
package viewer

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/generator"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/logging"
	"github.com/goliatone/go-fractalview/pkg/markup"
	"github.com/goliatone/go-fractalview/pkg/render"
	"github.com/goliatone/go-fractalview/pkg/render/template"
	"github.com/goliatone/go-fractalview/pkg/renderers/fill"
	"github.com/goliatone/go-fractalview/pkg/renderers/lines"
	"github.com/goliatone/go-fractalview/pkg/surface"
	"github.com/goliatone/go-fractalview/pkg/tmpl"
)

const (
	// ExamplesTemplate is the micro-template id used for example lists.
	ExamplesTemplate = "examples"
	// CaptionTemplate is the optional micro-template id for the page caption.
	CaptionTemplate = "caption"
	// PageTemplate is the page engine template name.
	PageTemplate = "page"
)

//go:embed templates
var embedded embed.FS

// TemplatesFS returns the built-in page templates and example markup.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// Source pairs an example dataset with the generator that turns its params
// into geometry.
type Source struct {
	Examples  *dataset.Dataset
	Generator generator.Generator
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithFamily registers the examples of a family. A nil generator reads
// precomputed geometry relative to the dataset directory.
func WithFamily(family geometry.Family, examples *dataset.Dataset, gen generator.Generator) Option {
	return func(v *Viewer) {
		v.sources[family] = Source{Examples: examples, Generator: gen}
	}
}

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(v *Viewer) {
		v.renderers = registry
	}
}

// WithMarkup sets the host markup the micro-templates are read from.
func WithMarkup(source markup.Source) Option {
	return func(v *Viewer) {
		v.markup = source
	}
}

// WithTemplates injects a ready template cache. It wins over WithMarkup.
func WithTemplates(cache *tmpl.Cache) Option {
	return func(v *Viewer) {
		v.templates = cache
	}
}

// WithPageRenderer replaces the page engine.
func WithPageRenderer(renderer template.TemplateRenderer) Option {
	return func(v *Viewer) {
		v.pages = renderer
	}
}

// WithThemes sets the theme selector and the theme and variant to use.
func WithThemes(selector theme.ThemeSelector, name, variant string) Option {
	return func(v *Viewer) {
		if selector != nil {
			v.themes = selector
		}
		v.themeName = name
		v.variant = variant
	}
}

// WithLogger routes viewer and renderer diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		v.logger = l
	}
}

// Viewer renders named examples. It is safe for concurrent use as long as
// every call gets its own surface.
type Viewer struct {
	sources   map[geometry.Family]Source
	renderers *render.Registry
	markup    markup.Source
	templates *tmpl.Cache
	pages     template.TemplateRenderer
	themes    theme.ThemeSelector
	themeName string
	variant   string
	logger    *slog.Logger

	mu     sync.RWMutex
	config string
}

// New builds a Viewer. Missing collaborators get defaults: both family
// renderers, the embedded markup, the embedded page templates and the
// built-in theme.
func New(options ...Option) (*Viewer, error) {
	v := &Viewer{sources: make(map[geometry.Family]Source)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}

	if v.renderers == nil {
		v.renderers = render.NewRegistry()
		v.renderers.MustRegister(lines.New(render.WithLogger(v.logger)))
		v.renderers.MustRegister(fill.New(render.WithLogger(v.logger)))
	}

	for family, src := range v.sources {
		if src.Examples == nil {
			return nil, fmt.Errorf("viewer: family %q has no examples", family)
		}
		if src.Generator == nil {
			if src.Examples.Dir() == "" {
				return nil, fmt.Errorf("viewer: family %q needs a generator", family)
			}
			src.Generator = generator.NewPrecomputed(os.DirFS(src.Examples.Dir()))
			v.sources[family] = src
		}
	}

	if v.templates == nil {
		if v.markup == nil {
			doc, err := loadDocument(TemplatesFS(), "markup.html")
			if err != nil {
				return nil, err
			}
			v.markup = doc
		}
		v.templates = tmpl.NewCache(v.markup, tmpl.WithLogger(v.logger))
	}

	if v.pages == nil {
		pages, err := newPageEngine()
		if err != nil {
			return nil, err
		}
		v.pages = pages
	}

	if v.themes == nil {
		v.themes = DefaultThemes()
	}
	return v, nil
}

func loadDocument(fsys fs.FS, name string) (*markup.Document, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("viewer: open markup: %w", err)
	}
	defer f.Close()
	doc, err := markup.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	return doc, nil
}

func (v *Viewer) log() *slog.Logger {
	return logging.Or(v.logger)
}

// Families lists the families that have examples, in display order.
func (v *Viewer) Families() []geometry.Family {
	out := make([]geometry.Family, 0, len(v.sources))
	for _, family := range geometry.Families() {
		if _, ok := v.sources[family]; ok {
			out = append(out, family)
		}
	}
	return out
}

// Examples returns the dataset of a family.
func (v *Viewer) Examples(family geometry.Family) (*dataset.Dataset, bool) {
	src, ok := v.sources[family]
	if !ok {
		return nil, false
	}
	return src.Examples, true
}

// Render draws the named example onto target and updates the config panel
// text. An unknown family is logged as a warning and an unknown example as a
// debug message; neither is an error and nothing is drawn.
func (v *Viewer) Render(ctx context.Context, family geometry.Family, name string, target surface.Surface) error {
	_, _, err := v.draw(ctx, family, name, target)
	return err
}

// draw reports whether the example was found and returns its geometry.
func (v *Viewer) draw(ctx context.Context, family geometry.Family, name string, target surface.Surface) (geometry.Geometry, bool, error) {
	src, ok := v.sources[family]
	if !ok {
		v.log().Warn("unknown fractal family", "family", string(family))
		return geometry.Geometry{}, false, nil
	}
	renderer, err := v.renderers.Get(family)
	if err != nil {
		v.log().Warn("no renderer for family", "family", string(family))
		return geometry.Geometry{}, false, nil
	}
	params, ok := src.Examples.Get(name)
	if !ok {
		v.log().Debug("unknown example", "family", string(family), "name", name)
		return geometry.Geometry{}, false, nil
	}

	text, err := FormatConfig(family, params)
	if err != nil {
		return geometry.Geometry{}, true, err
	}

	geom, err := src.Generator.Generate(ctx, family, name, params)
	if err != nil {
		return geometry.Geometry{}, true, fmt.Errorf("viewer: generate %s/%s: %w", family, name, err)
	}
	if err := renderer.Render(ctx, target, geom); err != nil {
		return geom, true, fmt.Errorf("viewer: render %s/%s: %w", family, name, err)
	}

	// the panel keeps describing the last example that actually drew
	v.mu.Lock()
	v.config = text
	v.mu.Unlock()
	v.log().Debug("example rendered", "family", string(family), "name", name, "points", geom.Len())
	return geom, true, nil
}

// Config returns the config panel text of the last rendered example.
func (v *Viewer) Config() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.config
}

// DefaultActive is the example highlighted when none is selected: the first
// line-family example.
func (v *Viewer) DefaultActive() string {
	src, ok := v.sources[geometry.FamilyLines]
	if !ok {
		return ""
	}
	name, _ := src.Examples.First()
	return name
}

// ExamplesMarkup renders the example list of a family through the
// `examples` micro-template. An empty active falls back to DefaultActive.
func (v *Viewer) ExamplesMarkup(family geometry.Family, active string) (string, error) {
	src, ok := v.sources[family]
	if !ok {
		return "", fmt.Errorf("viewer: %w %q", geometry.ErrUnknownFamily, family)
	}
	if active == "" {
		active = v.DefaultActive()
	}
	out, err := v.templates.Render(ExamplesTemplate, map[string]any{
		"fractals": src.Examples,
		"active":   active,
		"family":   string(family),
	})
	if err != nil {
		return "", fmt.Errorf("viewer: examples %s: %w", family, err)
	}
	return out, nil
}

// caption renders the optional caption micro-template. Hosts without one get
// an empty caption.
func (v *Viewer) caption(family geometry.Family, name string, geom geometry.Geometry) (string, error) {
	out, err := v.templates.Render(CaptionTemplate, map[string]any{
		"label":   family.Label(),
		"family":  string(family),
		"name":    name,
		"points":  geom.Len(),
		"sources": geom.SourceCount,
	})
	if errors.Is(err, markup.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("viewer: caption: %w", err)
	}
	return out, nil
}
