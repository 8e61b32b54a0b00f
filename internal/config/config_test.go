package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/geometry"
)

func TestLoadResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("testdata", "fractalview.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		Datasets: map[string]string{
			"lines": filepath.Join("testdata", "data", "l.yaml"),
			"ifs":   "/srv/fractals/ifs.json",
		},
		Markup:   filepath.Join("testdata", "index.html"),
		Family:   "ifs",
		Example:  "barnsley-fern",
		Format:   FormatHTML,
		Theme:    "fractalview",
		Variant:  "light",
		LogLevel: "debug",
		Width:    120,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	if path, ok := cfg.Dataset(geometry.FamilyLines); !ok || path != want.Datasets["lines"] {
		t.Fatalf("dataset for l = %q, %v", path, ok)
	}
	if cfg.FamilyCode() != geometry.FamilyFill {
		t.Fatalf("family = %q", cfg.FamilyCode())
	}
	if level, err := cfg.Level(); err != nil || level != slog.LevelDebug {
		t.Fatalf("level = %v, %v", level, err)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("width: 40\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Format != FormatPNG || cfg.Family != "l" || cfg.Width != 40 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.OutPath("koch-snowflake"); got != "koch-snowflake.png" {
		t.Fatalf("out path = %q", got)
	}

	empty, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if diff := cmp.Diff(Default(), empty); diff != "" {
		t.Fatalf("empty file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"format":  "format: svg\n",
		"family":  "family: dla\n",
		"dataset": "datasets:\n  dla: x.yaml\n",
		"level":   "log_level: loud\n",
		"width":   "width: -1\n",
		"unknown": "colour: red\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(raw)); err == nil {
				t.Fatalf("expected an error for %q", raw)
			}
		})
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}

	if _, err := Load("missing.yaml"); err == nil {
		t.Fatalf("an explicit missing file should be an error")
	}
}
