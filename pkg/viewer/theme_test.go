package viewer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
)

func TestThemesSelect(t *testing.T) {
	t.Parallel()

	themes := DefaultThemes()
	selection, err := themes.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if selection.Theme != DefaultThemeName || selection.Manifest == nil {
		t.Fatalf("unexpected selection %+v", selection)
	}

	if _, err := themes.Select("nope", ""); err == nil {
		t.Fatalf("expected an error for an unknown theme")
	}
	if _, err := themes.Select(DefaultThemeName, "sepia"); err == nil {
		t.Fatalf("expected an error for an unknown variant")
	}
	if themes.Provider() == nil {
		t.Fatalf("provider should be set")
	}
}

func TestRendererConfigMergesVariant(t *testing.T) {
	t.Parallel()

	selection, err := DefaultThemes().Select(DefaultThemeName, "light")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := rendererConfig(selection)
	if cfg == nil {
		t.Fatalf("expected a renderer config")
	}

	if got := cfg.Tokens["background"]; got != "#ffffff" {
		t.Fatalf("variant token should win, got %q", got)
	}
	if got := cfg.CSSVars["--accent"]; got != "#cc7832" {
		t.Fatalf("base token should survive, got %q", got)
	}
	if got := cfg.AssetURL("viewer.css"); got != "/assets/viewer.css" {
		t.Fatalf("asset url = %q", got)
	}
	if got := cfg.AssetURL("https://cdn.example.com/x.css"); got != "https://cdn.example.com/x.css" {
		t.Fatalf("absolute urls should pass through, got %q", got)
	}
	if rendererConfig(nil) != nil {
		t.Fatalf("nil selection should yield nil config")
	}
}

func TestSanitizeFragment(t *testing.T) {
	t.Parallel()

	raw := ` <li data-fractal="koch" class="active" onclick="steal()">koch</li><script>alert(1)</script> `
	got := sanitizeFragment(raw)

	if !strings.Contains(got, `data-fractal="koch"`) || !strings.Contains(got, `class="active"`) {
		t.Fatalf("allowed attributes dropped: %q", got)
	}
	for _, banned := range []string{"onclick", "<script", "alert"} {
		if strings.Contains(got, banned) {
			t.Fatalf("%q survived sanitizing: %q", banned, got)
		}
	}
	if sanitizeFragment("   ") != "" {
		t.Fatalf("blank input should stay blank")
	}
}

func TestFormatConfigCollapsesMatrices(t *testing.T) {
	t.Parallel()

	ds, err := dataset.Parse([]byte(`
fern:
  iterations: 3
  matrices:
    - { a: 0.5, p: 1 }
    - { a: 0.25, p: 0 }
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	params, _ := ds.Get("fern")

	got, err := FormatConfig(geometry.FamilyFill, params)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `{
  "iterations": 3,
  "matrices": [
    { "a": 0.5, "p": 1 },
    { "a": 0.25, "p": 0 }
  ]
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	lines, err := FormatConfig(geometry.FamilyLines, params)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(lines, "\"a\": 0.5,\n") {
		t.Fatalf("line family should keep the plain layout:\n%s", lines)
	}
}

func TestFormatConfigNilParams(t *testing.T) {
	t.Parallel()

	got, err := FormatConfig(geometry.FamilyLines, nil)
	if err != nil || got != "{}" {
		t.Fatalf("got %q, %v", got, err)
	}
}
