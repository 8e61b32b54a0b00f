package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestNewUsesCanvasDefaults(t *testing.T) {
	t.Parallel()

	s := New()
	t.Cleanup(func() { _ = s.Close() })

	if s.Width() != DefaultWidth || s.Height() != DefaultHeight {
		t.Fatalf("unexpected default size %dx%d", s.Width(), s.Height())
	}
}

func TestResizeReplacesContext(t *testing.T) {
	t.Parallel()

	s := New(WithSize(4, 4))
	t.Cleanup(func() { _ = s.Close() })

	s.FillBackground(color.Black)
	s.Resize(40, 30)

	if s.Width() != 40 || s.Height() != 30 {
		t.Fatalf("unexpected size after resize %dx%d", s.Width(), s.Height())
	}
	bounds := s.Image().Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 30 {
		t.Fatalf("image bounds not resized: %v", bounds)
	}
	if _, _, _, a := s.Image().At(0, 0).RGBA(); a != 0 {
		t.Fatalf("expected resize to clear content, alpha=%d", a)
	}
}

func TestFillBackgroundAndRect(t *testing.T) {
	t.Parallel()

	s := New(WithSize(10, 10))
	t.Cleanup(func() { _ = s.Close() })

	s.FillBackground(color.Black)
	s.FillRect(2, 3, 1, 1, color.RGBA{R: 255, A: 255})

	r, g, b, a := s.Image().At(2, 3).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 || a>>8 != 255 {
		t.Fatalf("expected red unit square, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
	r, g, b, a = s.Image().At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 || a>>8 != 255 {
		t.Fatalf("expected opaque black background, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	s := New(WithSize(8, 6), WithLineWidth(2))
	t.Cleanup(func() { _ = s.Close() })

	s.StrokeLine(0, 3, 8, 3, color.White)
	if err := s.Err(); err != nil {
		t.Fatalf("stroke: %v", err)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("unexpected png bounds %v", img.Bounds())
	}
}
