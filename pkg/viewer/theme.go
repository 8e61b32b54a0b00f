package viewer

import (
	"fmt"
	"maps"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the theme registered by DefaultThemes.
const DefaultThemeName = "fractalview"

// DefaultManifest returns the built-in dark theme with a light variant. The
// token colours follow the JSON colours of the config panel.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background": "#1e1f22",
			"foreground": "#bcbec4",
			"accent":     "#cc7832",
			"key":        "#9876aa",
			"number":     "#6897bb",
			"string":     "#6a8759",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
		},
		Variants: map[string]theme.Variant{
			"light": {
				Tokens: map[string]string{
					"background": "#ffffff",
					"foreground": "#1e1f22",
				},
			},
		},
	}
}

// Themes is a theme.ThemeSelector over a fixed set of manifests. Manifests
// are validated by registering them with a go-theme registry.
type Themes struct {
	mu        sync.RWMutex
	provider  theme.ThemeProvider
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests. The first manifest is the fallback used when
// Select is called with an empty name.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	registry := theme.NewRegistry()
	t := &Themes{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("viewer: register theme %q: %w", manifest.Name, err)
		}
		t.manifests[manifest.Name] = manifest
		if t.fallback == "" {
			t.fallback = manifest.Name
		}
	}
	return t, nil
}

// DefaultThemes returns a selector holding DefaultManifest.
func DefaultThemes() *Themes {
	t, err := NewThemes(DefaultManifest())
	if err != nil {
		panic(err)
	}
	return t
}

// Provider exposes the underlying go-theme registry.
func (t *Themes) Provider() theme.ThemeProvider {
	return t.provider
}

// Select implements theme.ThemeSelector. Unknown variants are an error; an
// empty variant selects the base tokens.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("viewer: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("viewer: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig flattens a selection into the tokens, CSS variables and
// asset resolver the page template uses. Variant values win over the base.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	maps.Copy(tokens, manifest.Tokens)
	partials := make(map[string]string, len(manifest.Templates))
	maps.Copy(partials, manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	maps.Copy(files, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(tokens, variant.Tokens)
		maps.Copy(partials, variant.Templates)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				file = key
			}
			if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}
