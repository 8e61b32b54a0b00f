package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// LoadGeometry reads a generator geometry document from disk.
func LoadGeometry(t *testing.T, path string, fallback geometry.Family) geometry.Geometry {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read geometry: %v", err)
	}
	geom, err := geometry.Decode(data, fallback)
	if err != nil {
		t.Fatalf("decode geometry: %v", err)
	}
	return geom
}

// LinePath builds line family points from xy pairs. Every point is paintable
// unless its index appears in penUp.
func LinePath(xy [][2]float64, penUp ...int) []geometry.Point {
	skip := make(map[int]struct{}, len(penUp))
	for _, idx := range penUp {
		skip[idx] = struct{}{}
	}
	points := make([]geometry.Point, 0, len(xy))
	for idx, p := range xy {
		_, up := skip[idx]
		points = append(points, geometry.Point{X: p[0], Y: p[1], Meta: geometry.LineMeta{Paintable: !up}})
	}
	return points
}

// FillCloud builds area-fill points from xy pairs and their source indexes.
func FillCloud(xy [][2]float64, sources []int) []geometry.Point {
	points := make([]geometry.Point, 0, len(xy))
	for idx, p := range xy {
		source := 0
		if idx < len(sources) {
			source = sources[idx]
		}
		points = append(points, geometry.Point{X: p[0], Y: p[1], Meta: geometry.FillMeta{SourceIndex: source}})
	}
	return points
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	return out, buf.String()
}
