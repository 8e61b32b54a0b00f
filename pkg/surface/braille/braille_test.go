package braille

import (
	"image/color"
	"strings"
	"testing"
)

func TestStrokeLineLightsDots(t *testing.T) {
	t.Parallel()

	s := New(WithoutColor())
	s.Resize(20, 8)

	if s.Columns() != 10 || s.Rows() != 2 {
		t.Fatalf("unexpected grid %dx%d", s.Columns(), s.Rows())
	}

	s.StrokeLine(0, 0, 3, 0, color.White)
	if got := s.Dots(); got != 4 {
		t.Fatalf("expected 4 dots, got %d", got)
	}

	first := []rune(s.Lines()[0])
	if first[0] != rune(0x2809) || first[1] != rune(0x2809) || first[2] != ' ' {
		t.Fatalf("unexpected first row %q", string(first[:3]))
	}
}

func TestFillRectHonoursFlippedTransform(t *testing.T) {
	t.Parallel()

	s := New(WithoutColor())
	s.Resize(4, 8)

	s.Save()
	s.Translate(0, 8)
	s.Scale(1, -1)
	s.FillRect(0, 0, 1, 1, color.White)
	s.Restore()

	if got := s.Dots(); got != 1 {
		t.Fatalf("expected single dot, got %d", got)
	}
	// y=0 flipped lands on the bottom dot row of the second cell row.
	if got := []rune(s.Lines()[1])[0]; got != rune(0x2800+0x40) {
		t.Fatalf("unexpected cell rune %U", got)
	}
}

func TestResizeScalesToColumnBudget(t *testing.T) {
	t.Parallel()

	s := New(WithColumns(5), WithoutColor())
	s.Resize(20, 8)

	if s.Columns() != 5 || s.Rows() != 1 {
		t.Fatalf("unexpected grid %dx%d", s.Columns(), s.Rows())
	}
	if s.Width() != 20 || s.Height() != 8 {
		t.Fatalf("logical size should be preserved, got %dx%d", s.Width(), s.Height())
	}

	s.StrokeLine(0, 0, 19, 0, color.White)
	if got := s.Dots(); got != 10 {
		t.Fatalf("expected 10 dots after downscale, got %d", got)
	}
}

func TestStringRendersEveryRow(t *testing.T) {
	t.Parallel()

	s := New()
	s.Resize(4, 8)
	s.FillBackground(color.Black)
	s.FillRect(0, 0, 1, 1, color.RGBA{R: 255, A: 255})

	out := s.String()
	if got := strings.Count(out, "\n"); got != 1 {
		t.Fatalf("expected 2 rows, got %d newlines in %q", got, out)
	}
	if !strings.ContainsRune(out, rune(0x2801)) {
		t.Fatalf("expected lit dot in %q", out)
	}
}

func TestRestoreWithoutSaveIsNoop(t *testing.T) {
	t.Parallel()

	s := New(WithoutColor())
	s.Resize(4, 4)
	s.Restore()
	s.FillRect(1, 1, 1, 1, color.White)
	if got := s.Dots(); got != 1 {
		t.Fatalf("expected one dot, got %d", got)
	}
}
