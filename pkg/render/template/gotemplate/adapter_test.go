package gotemplate

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
	"github.com/google/go-cmp/cmp"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"caption.tpl": {Data: []byte("{{ family }}: {{ name }}")},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRenderStringWritesToOut(t *testing.T) {
	engine := newTestEngine(t)

	var first, second bytes.Buffer
	got, err := engine.RenderString("{{ name }} x{{ depth }}", map[string]any{"name": "koch", "depth": 3}, &first, &second)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "koch x3" {
		t.Fatalf("unexpected output %q", got)
	}
	if first.String() != got || second.String() != got {
		t.Fatalf("writers should receive the result, got %q and %q", first.String(), second.String())
	}
}

func TestRenderTemplateAppendsExtension(t *testing.T) {
	engine := newTestEngine(t)

	var out bytes.Buffer
	got, err := engine.Render("caption", map[string]string{"family": "l", "name": "square"}, &out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "l: square" || out.String() != got {
		t.Fatalf("unexpected output %q / %q", got, out.String())
	}
}

func TestRegisterFilterRejectsDuplicates(t *testing.T) {
	engine := newTestEngine(t)
	reverse := func(input any, _ any) (any, error) {
		runes := []rune(strings.TrimSpace(input.(string)))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	}

	if err := engine.RegisterFilter("fv_reverse", reverse); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := engine.RegisterFilter("fv_reverse", reverse)
	if err == nil || !strings.Contains(err.Error(), `filter "fv_reverse" already exists`) {
		t.Fatalf("expected a duplicate filter error, got %v", err)
	}
	if err := engine.RegisterFilter("cssvars", reverse); err == nil {
		t.Fatalf("default filters should not be replaceable")
	}
	if err := engine.RegisterFilter(" ", reverse); err == nil {
		t.Fatalf("expected an error for a blank name")
	}

	got, err := engine.RenderString("{{ name|fv_reverse }}", map[string]any{"name": "fern"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "nref" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWithFilterRegistersAtNew(t *testing.T) {
	engine := newTestEngine(t, WithFilter("fv_bracket", func(input any, param any) (any, error) {
		return "[" + input.(string) + "]", nil
	}))

	got, err := engine.RenderString("{{ name|fv_bracket }}", map[string]any{"name": "pair"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[pair]" {
		t.Fatalf("unexpected output %q", got)
	}

	// a second engine keeps the filter that is already registered
	if _, err := New(WithFS(fstest.MapFS{}), WithFilter("fv_bracket", func(any, any) (any, error) { return "", nil })); err != nil {
		t.Fatalf("second engine: %v", err)
	}
	if got, _ := engine.RenderString("{{ name|fv_bracket }}", map[string]any{"name": "pair"}); got != "[pair]" {
		t.Fatalf("existing filter replaced, got %q", got)
	}
}

func TestConvertToContext(t *testing.T) {
	type caption struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	tests := []struct {
		name string
		in   any
		want pongo2.Context
	}{
		{name: "nil", in: nil, want: pongo2.Context{}},
		{name: "map", in: map[string]any{"name": "koch"}, want: pongo2.Context{"name": "koch"}},
		{name: "string map", in: map[string]string{"bg": "#000"}, want: pongo2.Context{"bg": "#000"}},
		{name: "struct", in: caption{Name: "fern", Points: 4}, want: pongo2.Context{"name": "fern", "points": float64(4)}},
		{name: "pointer", in: &caption{Name: "pair"}, want: pongo2.Context{"name": "pair", "points": float64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertToContext(tt.in)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("context mismatch (-want +got):\n%s", diff)
			}
		})
	}

	nested := []map[string]any{{"code": "l"}}
	got, err := convertToContext(map[string]any{"families": nested})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, ok := got["families"].([]map[string]any); !ok {
		t.Fatalf("nested values should be passed through, got %T", got["families"])
	}

	for _, bad := range []any{"koch", 3, []string{"a"}} {
		if _, err := convertToContext(bad); err == nil || !strings.Contains(err.Error(), "context must be an object") {
			t.Fatalf("expected an object error for %T, got %v", bad, err)
		}
	}
}

func TestCSSVarsFilter(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.RenderString("{{ vars|cssvars }}", map[string]any{
		"vars": map[string]any{"bg": "#000", "--accent": "#cc7832", "gap": 2},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "--accent: #cc7832; --bg: #000; --gap: 2;"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got, err = engine.RenderString("[{{ vars|cssvars }}]", map[string]any{"vars": "plain"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[]" {
		t.Fatalf("non-map input should render empty, got %q", got)
	}
}
