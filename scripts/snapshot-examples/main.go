package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	fractalview "github.com/goliatone/go-fractalview"
	"github.com/goliatone/go-fractalview/pkg/geometry"
	"github.com/goliatone/go-fractalview/pkg/render"
	"github.com/goliatone/go-fractalview/pkg/surface"
	"github.com/goliatone/go-fractalview/pkg/viewer"
)

// snapshotRenderer records a summary of every geometry it is asked to draw
// instead of drawing it.
type snapshotRenderer struct {
	family geometry.Family
	last   *summary
}

type summary struct {
	Family      geometry.Family `json:"family"`
	Name        string          `json:"name"`
	Bounds      []float64       `json:"bounds"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Points      int             `json:"points"`
	Paintable   int             `json:"paintable,omitempty"`
	SourceCount int             `json:"sources,omitempty"`
}

func (r *snapshotRenderer) Name() string {
	return "snapshot-" + string(r.family)
}

func (r *snapshotRenderer) Family() geometry.Family {
	return r.family
}

func (r *snapshotRenderer) Render(_ context.Context, _ surface.Surface, geom geometry.Geometry) error {
	width, height := geom.Bounds.PixelSize()
	s := &summary{
		Family:      geom.Family,
		Bounds:      geom.Bounds.Slice(),
		Width:       width,
		Height:      height,
		Points:      geom.Len(),
		SourceCount: geom.SourceCount,
	}
	for _, p := range geom.Points {
		if p.Paintable() {
			s.Paintable++
		}
	}
	r.last = s
	return nil
}

func main() {
	outputPath := flag.String("output", "examples_summary.json", "output path for the example summary")
	flag.Parse()

	ctx := context.Background()

	registry := render.NewRegistry()
	snapshots := map[geometry.Family]*snapshotRenderer{}
	for _, family := range geometry.Families() {
		r := &snapshotRenderer{family: family}
		snapshots[family] = r
		registry.MustRegister(r)
	}

	v, err := fractalview.NewViewer(viewer.WithRegistry(registry))
	if err != nil {
		log.Fatalf("create viewer: %v", err)
	}

	var out []*summary
	for _, family := range v.Families() {
		examples, _ := v.Examples(family)
		for _, name := range examples.Names() {
			snapshots[family].last = nil
			if err := v.Render(ctx, family, name, nil); err != nil {
				log.Fatalf("render %s/%s: %v", family, name, err)
			}
			s := snapshots[family].last
			if s == nil {
				log.Fatalf("render %s/%s produced no geometry", family, name)
			}
			s.Name = name
			out = append(out, s)
		}
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode summary: %v", err)
	}
	if err := os.WriteFile(*outputPath, payload, 0o644); err != nil {
		log.Fatalf("write summary: %v", err)
	}
	fmt.Printf("Summary of %d examples written to %s\n", len(out), *outputPath)
}
