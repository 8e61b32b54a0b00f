package surface

import (
	"image/color"
	"testing"
)

type stubSurface struct{}

func (*stubSurface) Resize(int, int)                              {}
func (*stubSurface) Width() int                                   { return 0 }
func (*stubSurface) Height() int                                  { return 0 }
func (*stubSurface) Save()                                        {}
func (*stubSurface) Restore()                                     {}
func (*stubSurface) Translate(float64, float64)                   {}
func (*stubSurface) Scale(float64, float64)                       {}
func (*stubSurface) FillBackground(color.Color)                   {}
func (*stubSurface) StrokeLine(_, _, _, _ float64, _ color.Color) {}
func (*stubSurface) FillRect(_, _, _, _ float64, _ color.Color)   {}

func TestMissing(t *testing.T) {
	t.Parallel()

	var typedNil *stubSurface
	if !Missing(nil) {
		t.Fatalf("nil interface should be missing")
	}
	if !Missing(typedNil) {
		t.Fatalf("typed nil pointer should be missing")
	}
	if Missing(&stubSurface{}) {
		t.Fatalf("live surface should not be missing")
	}
}
