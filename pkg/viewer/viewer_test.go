package viewer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/generator"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/markup"
	"github.com/goliatone/go-fractalview/pkg/testsupport"
	"github.com/goliatone/go-fractalview/pkg/viewer"
)

func loadDataset(t *testing.T, path string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return ds
}

func newViewer(t *testing.T, options ...viewer.Option) *viewer.Viewer {
	t.Helper()
	base := []viewer.Option{
		viewer.WithFamily(geometry.FamilyLines, loadDataset(t, "testdata/l.yaml"), nil),
		viewer.WithFamily(geometry.FamilyFill, loadDataset(t, "testdata/ifs.yaml"), nil),
	}
	v, err := viewer.New(append(base, options...)...)
	if err != nil {
		t.Fatalf("new viewer: %v", err)
	}
	return v
}

func bufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestRenderDispatchesLineFamily(t *testing.T) {
	t.Parallel()

	v := newViewer(t)
	rec := testsupport.NewRecordingSurface()
	if err := v.Render(context.Background(), geometry.FamilyLines, "square", rec); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := rec.Count(testsupport.OpStroke); got != 2 {
		t.Fatalf("expected 2 strokes, got %d", got)
	}
	if rec.Width() != 24 || rec.Height() != 24 {
		t.Fatalf("unexpected surface size %dx%d", rec.Width(), rec.Height())
	}
	if !strings.Contains(v.Config(), `"axiom": "F+F+F+F"`) {
		t.Fatalf("config panel missing params:\n%s", v.Config())
	}
}

func TestRenderDispatchesFillFamily(t *testing.T) {
	t.Parallel()

	v := newViewer(t)
	rec := testsupport.NewRecordingSurface()
	if err := v.Render(context.Background(), geometry.FamilyFill, "pair", rec); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := rec.Count(testsupport.OpFill); got != 3 {
		t.Fatalf("expected 3 fills, got %d", got)
	}
	if got := rec.Count(testsupport.OpStroke); got != 0 {
		t.Fatalf("fill family must not stroke, got %d", got)
	}
	want := `    { "a": 0.5, "e": 1, "p": 0.5 }`
	if !strings.Contains(v.Config(), want) {
		t.Fatalf("config panel should collapse matrix rows, got:\n%s", v.Config())
	}
}

func TestRenderUnknownFamilyWarns(t *testing.T) {
	t.Parallel()

	logger, logs := bufferLogger(slog.LevelInfo)
	v := newViewer(t, viewer.WithLogger(logger))
	rec := testsupport.NewRecordingSurface()

	if err := v.Render(context.Background(), geometry.Family("dla"), "square", rec); err != nil {
		t.Fatalf("unknown family should not be an error: %v", err)
	}
	if len(rec.Ops()) != 0 {
		t.Fatalf("nothing should be drawn, got %v", rec.Kinds())
	}
	if !strings.Contains(logs.String(), "unknown fractal family") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestRenderUnknownExampleIsNoop(t *testing.T) {
	t.Parallel()

	logger, logs := bufferLogger(slog.LevelDebug)
	v := newViewer(t, viewer.WithLogger(logger))
	rec := testsupport.NewRecordingSurface()

	if err := v.Render(context.Background(), geometry.FamilyLines, "nope", rec); err != nil {
		t.Fatalf("unknown example should not be an error: %v", err)
	}
	if len(rec.Ops()) != 0 {
		t.Fatalf("nothing should be drawn, got %v", rec.Kinds())
	}
	if v.Config() != "" {
		t.Fatalf("config panel should be untouched, got %q", v.Config())
	}
	if !strings.Contains(logs.String(), "unknown example") {
		t.Fatalf("expected a debug diagnostic, got %q", logs.String())
	}
}

func TestRenderWrapsGeneratorErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	files := generator.NewPrecomputed(os.DirFS("testdata"))
	gen := generator.Func(func(ctx context.Context, family geometry.Family, name string, params dataset.Params) (geometry.Geometry, error) {
		if name == "zigzag" {
			return geometry.Geometry{}, boom
		}
		return files.Generate(ctx, family, name, params)
	})
	v, err := viewer.New(viewer.WithFamily(geometry.FamilyLines, loadDataset(t, "testdata/l.yaml"), gen))
	if err != nil {
		t.Fatalf("new viewer: %v", err)
	}

	if err := v.Render(context.Background(), geometry.FamilyLines, "square", testsupport.NewRecordingSurface()); err != nil {
		t.Fatalf("render square: %v", err)
	}
	before := v.Config()
	if !strings.Contains(before, `"axiom": "F+F+F+F"`) {
		t.Fatalf("config panel missing params:\n%s", before)
	}

	err = v.Render(context.Background(), geometry.FamilyLines, "zigzag", testsupport.NewRecordingSurface())
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if got := v.Config(); got != before {
		t.Fatalf("failed render should keep the previous config, got:\n%s", got)
	}
}

func TestNewRequiresGeneratorWithoutDir(t *testing.T) {
	t.Parallel()

	ds := dataset.New(dataset.Entry{Name: "solo"})
	if _, err := viewer.New(viewer.WithFamily(geometry.FamilyLines, ds, nil)); err == nil {
		t.Fatalf("expected an error for a dataset without directory or generator")
	}
}

func TestExamplesMarkupMarksActive(t *testing.T) {
	t.Parallel()

	v := newViewer(t)
	if got := v.DefaultActive(); got != "square" {
		t.Fatalf("default active = %q, want square", got)
	}

	out, err := v.ExamplesMarkup(geometry.FamilyLines, "")
	if err != nil {
		t.Fatalf("examples markup: %v", err)
	}
	for _, want := range []string{
		`<li data-fractal="square" aria-current="true" class="active">square</li>`,
		`<li data-fractal="zigzag" aria-current="false">zigzag</li>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markup missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "square") > strings.Index(out, "zigzag") {
		t.Fatalf("examples should follow dataset order:\n%s", out)
	}

	out, err = v.ExamplesMarkup(geometry.FamilyFill, "pair")
	if err != nil {
		t.Fatalf("examples markup: %v", err)
	}
	if !strings.Contains(out, `class="active">pair</li>`) {
		t.Fatalf("explicit active not marked:\n%s", out)
	}
}

func TestExamplesMarkupErrors(t *testing.T) {
	t.Parallel()

	v := newViewer(t)
	if _, err := v.ExamplesMarkup(geometry.Family("dla"), ""); !errors.Is(err, geometry.ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily, got %v", err)
	}

	bare := newViewer(t, viewer.WithMarkup(markup.Map{}))
	if _, err := bare.ExamplesMarkup(geometry.FamilyLines, ""); !errors.Is(err, markup.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExamplesMarkupCustomHost(t *testing.T) {
	t.Parallel()

	v := newViewer(t, viewer.WithMarkup(markup.Map{
		viewer.ExamplesTemplate: "<% for (var name in fractals) { %>[<%= name %>]<% } %>",
	}))
	out, err := v.ExamplesMarkup(geometry.FamilyLines, "")
	if err != nil {
		t.Fatalf("examples markup: %v", err)
	}
	if out != "[square][zigzag]" {
		t.Fatalf("got %q", out)
	}
}

func TestFamiliesFollowDisplayOrder(t *testing.T) {
	t.Parallel()

	v := newViewer(t)
	got := v.Families()
	if len(got) != 2 || got[0] != geometry.FamilyLines || got[1] != geometry.FamilyFill {
		t.Fatalf("unexpected families %v", got)
	}
	if _, ok := v.Examples(geometry.Family("dla")); ok {
		t.Fatalf("unknown family should have no examples")
	}
}
