package lines

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/render"
	"github.com/goliatone/go-fractalview/pkg/testsupport"
)

var square = [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

func TestDrawStrokesEverySegment(t *testing.T) {
	t.Parallel()

	rec := testsupport.NewRecordingSurface()
	Draw(rec, geometry.Bounds{MaxX: 10, MaxY: 10}, testsupport.LinePath(square))

	strokes := rec.Filter(testsupport.OpStroke)
	if len(strokes) != len(square)-1 {
		t.Fatalf("expected %d segments, got %d", len(square)-1, len(strokes))
	}
	for i, op := range strokes {
		want := render.Hue(255 / float64(len(square)-1) * float64(i+1))
		if diff := cmp.Diff(want, op.Color); diff != "" {
			t.Fatalf("segment %d color mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestDrawSkipsPenUpSegmentsWithoutBridging(t *testing.T) {
	t.Parallel()

	rec := testsupport.NewRecordingSurface()
	points := testsupport.LinePath(square, 0, 2, 3)
	Draw(rec, geometry.Bounds{MaxX: 10, MaxY: 10}, points)

	strokes := rec.Filter(testsupport.OpStroke)
	// index 0 has no incoming segment, so only 2 and 3 remove segments
	if len(strokes) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(strokes))
	}

	type segment struct{ X1, Y1, X2, Y2 float64 }
	got := make([]segment, 0, len(strokes))
	for _, op := range strokes {
		got = append(got, segment{op.X1, op.Y1, op.X2, op.Y2})
	}
	want := []segment{
		{0, 0, 10, 0},
		{0, 10, 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}

	wantLast := render.Hue(255 / 4.0 * 4)
	if diff := cmp.Diff(wantLast, strokes[1].Color); diff != "" {
		t.Fatalf("hue must follow sequence index (-want +got):\n%s", diff)
	}
}

func TestDrawSizesAndOffsetsSurface(t *testing.T) {
	t.Parallel()

	rec := testsupport.NewRecordingSurface()
	bounds := geometry.Bounds{MaxX: 100, MaxY: 50, MinX: -20, MinY: -10}
	points := testsupport.LinePath([][2]float64{{-20, -10}, {100, 50}})
	Draw(rec, bounds, points)

	if rec.Width() != 140 || rec.Height() != 80 {
		t.Fatalf("unexpected surface size %dx%d", rec.Width(), rec.Height())
	}

	strokes := rec.Filter(testsupport.OpStroke)
	if len(strokes) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(strokes))
	}
	if strokes[0].DX != 10 || strokes[0].DY != 10 {
		t.Fatalf("expected min corner at margin (10,10), got (%v,%v)", strokes[0].DX, strokes[0].DY)
	}
	if strokes[0].X2+geometry.Margin != 130 || strokes[0].Y2+geometry.Margin != 70 {
		t.Fatalf("unexpected far corner (%v,%v)", strokes[0].X2, strokes[0].Y2)
	}
	if rec.Depth() != 0 {
		t.Fatalf("save/restore not balanced, depth %d", rec.Depth())
	}
}

func TestDrawEmptyAndSinglePoint(t *testing.T) {
	t.Parallel()

	for _, points := range [][]geometry.Point{nil, testsupport.LinePath([][2]float64{{1, 1}})} {
		rec := testsupport.NewRecordingSurface()
		Draw(rec, geometry.Bounds{MaxX: 5, MaxY: 5}, points)

		if got := rec.Count(testsupport.OpStroke); got != 0 {
			t.Fatalf("expected no segments for %d points, got %d", len(points), got)
		}
		if diff := cmp.Diff([]testsupport.OpKind{testsupport.OpResize}, rec.Kinds()); diff != "" {
			t.Fatalf("unexpected calls (-want +got):\n%s", diff)
		}
	}
}

func TestDrawMissingSurfaceWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(render.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	var typedNil *testsupport.RecordingSurface
	r.Draw(nil, geometry.Bounds{}, testsupport.LinePath(square))
	r.Draw(typedNil, geometry.Bounds{}, testsupport.LinePath(square))

	if got := strings.Count(buf.String(), "surface is nil"); got != 2 {
		t.Fatalf("expected 2 warnings, got %d in %q", got, buf.String())
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected warn level, got %q", buf.String())
	}
}

func TestRenderUsesGeometry(t *testing.T) {
	t.Parallel()

	rec := testsupport.NewRecordingSurface()
	r := New()
	err := r.Render(context.Background(), rec, geometry.Geometry{
		Family: geometry.FamilyLines,
		Bounds: geometry.Bounds{MaxX: 10, MaxY: 10},
		Points: testsupport.LinePath(square, 1),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := rec.Count(testsupport.OpStroke); got != 3 {
		t.Fatalf("expected 3 segments, got %d", got)
	}
	if r.Family() != geometry.FamilyLines || r.Name() != Name {
		t.Fatalf("unexpected identity %q/%q", r.Name(), r.Family())
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := testsupport.NewRecordingSurface()
	err := New().Render(ctx, rec, geometry.Geometry{Points: testsupport.LinePath(square)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rec.Ops()) != 0 {
		t.Fatalf("expected no drawing after cancellation")
	}
}
