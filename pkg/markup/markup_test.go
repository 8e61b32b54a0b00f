package markup

import (
	"errors"
	"strings"
	"testing"
)

const page = `<!doctype html>
<html>
<body>
  <ul id="l-examples"></ul>
  <div id="panel"><b>bold</b> &amp; text</div>
  <script type="text/template" id="examples">
    <% for (var name in fractals) { %><li data-fractal="<%= name %>"><%= name %></li><% } %>
  </script>
  <script type="text/template" id="examples">shadowed</script>
</body>
</html>`

func TestDocumentLookup(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	tpl, err := doc.Lookup("examples")
	if err != nil {
		t.Fatalf("Lookup examples: %v", err)
	}
	if !strings.Contains(tpl, `<li data-fractal="<%= name %>">`) {
		t.Fatalf("script content must be raw, got %q", tpl)
	}
	if strings.Contains(tpl, "shadowed") {
		t.Fatalf("first element with an id must win")
	}

	panel, err := doc.Lookup("panel")
	if err != nil {
		t.Fatalf("Lookup panel: %v", err)
	}
	if panel != "<b>bold</b> &amp; text" {
		t.Fatalf("unexpected inner markup %q", panel)
	}

	empty, err := doc.Lookup("l-examples")
	if err != nil || empty != "" {
		t.Fatalf("expected empty content, got %q %v", empty, err)
	}
}

func TestLookupMissing(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	for _, src := range []Source{doc, Map{"a": "b"}} {
		_, err := src.Lookup("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), `"nope"`) {
			t.Fatalf("error should name the id, got %v", err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	doc, err := Load("testdata/index.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.IDs() == 0 {
		t.Fatalf("expected indexed elements")
	}
	if _, err := doc.Lookup("examples"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if _, err := Load("testdata/missing.html"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
