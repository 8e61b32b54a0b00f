package fractalview

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/testsupport"
)

func TestExamplesFSContainsDatasets(t *testing.T) {
	fsys := ExamplesFS()
	for _, name := range []string{"l.json", "ifs.json", "geometry/koch-snowflake.json", "geometry/barnsley-fern.json"} {
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Fatalf("expected %s to be embedded: %v", name, err)
		}
	}
	if _, err := fs.Stat(EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}

func TestLoadExamplesKeepsFileOrder(t *testing.T) {
	ds, err := LoadExamples(geometry.FamilyLines)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"koch-snowflake", "dragon-curve", "sierpinski-arrowhead", "fractal-plant"}
	if diff := cmp.Diff(want, ds.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadExamples(geometry.Family("dla")); err == nil {
		t.Fatalf("expected an error for an unknown family")
	}
}

func TestBuiltInExamplesRender(t *testing.T) {
	v, err := NewViewer()
	if err != nil {
		t.Fatalf("new viewer: %v", err)
	}
	if v.DefaultActive() != "koch-snowflake" {
		t.Fatalf("default active = %q", v.DefaultActive())
	}

	for _, family := range geometry.Families() {
		ds, _ := v.Examples(family)
		for _, name := range ds.Names() {
			rec := testsupport.NewRecordingSurface()
			if err := v.Render(context.Background(), family, name, rec); err != nil {
				t.Fatalf("render %s/%s: %v", family, name, err)
			}
			drawn := rec.Count(testsupport.OpStroke) + rec.Count(testsupport.OpFill)
			if drawn == 0 {
				t.Fatalf("%s/%s drew nothing", family, name)
			}
			if rec.Depth() != 0 {
				t.Fatalf("%s/%s left the transform stack unbalanced", family, name)
			}
		}
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(context.Background(), &buf, geometry.FamilyFill, "sierpinski-triangle"); err != nil {
		t.Fatalf("render png: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG")
	}

	err := RenderPNG(context.Background(), &buf, geometry.FamilyFill, "nope")
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGeneratePage(t *testing.T) {
	page, err := GeneratePage(context.Background(), geometry.FamilyLines, "dragon-curve")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	for _, want := range []string{`data-fractal="barnsley-fern"`, `class="active">dragon-curve</li>`, "data:image/png;base64,"} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}
