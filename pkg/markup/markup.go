// Package markup resolves template sources by host element id.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotFound is returned when no element carries the requested id.
var ErrNotFound = errors.New("markup: element not found")

// Source returns the inner content of the element with the given id.
type Source interface {
	Lookup(id string) (string, error)
}

// Map is a Source backed by an id to content map.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(id string) (string, error) {
	content, ok := m[id]
	if !ok {
		return "", fmt.Errorf("markup: %q: %w", id, ErrNotFound)
	}
	return content, nil
}

// Document is a parsed HTML document indexed by element id. The first
// element carrying an id wins. A Document is read only after parsing and
// safe for concurrent lookups.
type Document struct {
	ids map[string]string
}

var _ Source = (*Document)(nil)

// Parse reads an HTML document and indexes every element that has an id.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse document: %w", err)
	}
	doc := &Document{ids: make(map[string]string)}
	if err := doc.index(root); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString parses markup held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Load parses the HTML document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("markup: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Lookup implements Source.
func (d *Document) Lookup(id string) (string, error) {
	if d != nil {
		if content, ok := d.ids[id]; ok {
			return content, nil
		}
	}
	return "", fmt.Errorf("markup: %q: %w", id, ErrNotFound)
}

// IDs returns the number of indexed elements.
func (d *Document) IDs() int {
	return len(d.ids)
}

func (d *Document) index(n *html.Node) error {
	if n.Type == html.ElementNode {
		if id := attr(n, "id"); id != "" {
			if _, seen := d.ids[id]; !seen {
				content, err := inner(n)
				if err != nil {
					return fmt.Errorf("markup: element %q: %w", id, err)
				}
				d.ids[id] = content
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := d.index(c); err != nil {
			return err
		}
	}
	return nil
}

// inner returns the raw text of script-like elements and the rendered
// children of everything else, as innerHTML would.
func inner(n *html.Node) (string, error) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Textarea, atom.Title:
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String(), nil
	}

	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
