package tmpl

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/goliatone/go-fractalview/pkg/logging"
	"github.com/goliatone/go-fractalview/pkg/markup"
	"github.com/goliatone/go-fractalview/pkg/tmpl/expr"
)

// Cache compiles templates from a markup source on first use and keeps them
// keyed by element id. The markup for an id is read once; later changes to
// the source never reach a cached template.
type Cache struct {
	mu        sync.Mutex
	source    markup.Source
	templates map[string]*Template
	funcs     map[string]expr.Func
	logger    *slog.Logger
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithFuncs registers extra helpers, overriding builtins with the same name.
func WithFuncs(funcs map[string]expr.Func) CacheOption {
	return func(c *Cache) {
		maps.Copy(c.funcs, funcs)
	}
}

// WithLogger routes compile diagnostics to l.
func WithLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = l
	}
}

// NewCache creates an empty cache reading template markup from source.
func NewCache(source markup.Source, opts ...CacheOption) *Cache {
	c := &Cache{
		source:    source,
		templates: make(map[string]*Template),
		funcs:     expr.Builtins(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the compiled template for id, compiling it on first use.
// Every later call returns the same *Template. Missing markup wraps
// markup.ErrNotFound and malformed markup returns a *SyntaxError; neither is
// cached.
func (c *Cache) Get(id string) (*Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tpl, ok := c.templates[id]; ok {
		return tpl, nil
	}
	if c.source == nil {
		return nil, fmt.Errorf("tmpl: %q: %w", id, markup.ErrNotFound)
	}

	source, err := c.source.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("tmpl: lookup %q: %w", id, err)
	}
	tpl, err := compile(id, source, c.funcs)
	if err != nil {
		return nil, err
	}
	c.templates[id] = tpl
	logging.Or(c.logger).Debug("template compiled", "id", id)
	return tpl, nil
}

// Render compiles (or reuses) the template for id and executes it with data.
func (c *Cache) Render(id string, data any) (string, error) {
	tpl, err := c.Get(id)
	if err != nil {
		return "", err
	}
	return tpl.Execute(data)
}

// MustRender is like Render but panics when the template cannot be found or
// compiled. Execution errors panic too.
func (c *Cache) MustRender(id string, data any) string {
	out, err := c.Render(id, data)
	if err != nil {
		panic(err)
	}
	return out
}

// Len reports how many templates have been compiled.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.templates)
}
