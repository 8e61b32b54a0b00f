package viewer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/render/template/gotemplate"
	"github.com/goliatone/go-fractalview/pkg/surface/raster"
)

// PageTitle is the document title of the composed page.
const PageTitle = "Fractal Viewer"

func newPageEngine() (*gotemplate.Engine, error) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithExtension(".tpl"),
		gotemplate.WithGlobalData(map[string]any{"title": PageTitle}),
	)
	if err != nil {
		return nil, fmt.Errorf("viewer: page engine: %w", err)
	}
	return engine, nil
}

// Page renders the named example to PNG and composes the full HTML page:
// a tab per family with its sanitized example list, the caption, the config
// panel and the image as a data URI. Unknown examples yield a page without
// an image.
func (v *Viewer) Page(ctx context.Context, family geometry.Family, name string) (string, error) {
	var out bytes.Buffer
	if err := v.WritePage(ctx, &out, family, name); err != nil {
		return "", err
	}
	return out.String(), nil
}

// WritePage is Page writing to w.
func (v *Viewer) WritePage(ctx context.Context, w io.Writer, family geometry.Family, name string) error {
	canvas := raster.New()
	defer canvas.Close()

	geom, found, err := v.draw(ctx, family, name, canvas)
	if err != nil {
		return err
	}

	data := map[string]any{
		"name":   name,
		"family": string(family),
		"config": "",
	}

	if found {
		if err := canvas.Err(); err != nil {
			return fmt.Errorf("viewer: rasterize %s/%s: %w", family, name, err)
		}
		var png bytes.Buffer
		if err := canvas.EncodePNG(&png); err != nil {
			return fmt.Errorf("viewer: encode png: %w", err)
		}
		data["image"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png.Bytes())
		data["width"] = canvas.Width()
		data["height"] = canvas.Height()
		data["config"] = v.Config()

		caption, err := v.caption(family, name, geom)
		if err != nil {
			return err
		}
		data["caption"] = sanitizeFragment(caption)
	}

	families := make([]map[string]any, 0, len(v.sources))
	for _, f := range v.Families() {
		active := ""
		if f == family && found {
			active = name
		}
		list, err := v.ExamplesMarkup(f, active)
		if err != nil {
			return err
		}
		families = append(families, map[string]any{
			"id":       "tab-" + string(f),
			"code":     string(f),
			"label":    f.Label(),
			"examples": sanitizeFragment(list),
			"selected": f == family,
		})
	}
	data["families"] = families

	selection, err := v.themes.Select(v.themeName, v.variant)
	if err != nil {
		return fmt.Errorf("viewer: select theme: %w", err)
	}
	if cfg := rendererConfig(selection); cfg != nil {
		data["theme"] = map[string]any{
			"name":     cfg.Theme,
			"variant":  cfg.Variant,
			"tokens":   cfg.Tokens,
			"css_vars": cfg.CSSVars,
		}
	}

	if _, err := v.pages.RenderTemplate(PageTemplate, data, w); err != nil {
		return fmt.Errorf("viewer: page: %w", err)
	}
	return nil
}
