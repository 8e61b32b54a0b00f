// Package braille implements surface.Surface as a terminal preview. Drawing
// is rasterised into a braille micro-grid (2x4 dots per character cell) and
// rendered with lipgloss foreground colors.
//
// Surfaces wider than the configured column budget are scaled down uniformly
// so the whole figure fits.
package braille

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/goliatone/go-fractalview/pkg/surface"
)

// DefaultColumns is the default terminal width budget, in cells.
const DefaultColumns = 80

// Option configures a braille surface.
type Option func(*Surface)

// WithColumns caps the preview width in terminal cells.
func WithColumns(cols int) Option {
	return func(s *Surface) {
		if cols > 0 {
			s.columns = cols
		}
	}
}

// WithoutColor renders plain braille runes.
func WithoutColor() Option {
	return func(s *Surface) {
		s.plain = true
	}
}

// Surface is a braille terminal surface.
type Surface struct {
	columns int
	plain   bool

	width, height int
	factor        float64
	background    string

	matrix affine
	stack  []affine
	grid   *grid
}

var _ surface.Surface = (*Surface)(nil)

// New returns an empty surface. Call Resize before drawing.
func New(options ...Option) *Surface {
	s := &Surface{columns: DefaultColumns}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.Resize(0, 0)
	return s
}

// Resize sets the logical size, recomputes the downscale factor and clears
// the grid.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.factor = 1
	microW := s.columns * 2
	if s.width > microW {
		s.factor = float64(microW) / float64(s.width)
	}
	cols := int(math.Ceil(float64(s.width) * s.factor / 2))
	rows := int(math.Ceil(float64(s.height) * s.factor / 4))
	s.grid = newGrid(cols, rows)
	s.matrix = identity()
	s.stack = s.stack[:0]
	s.background = ""
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Columns and Rows report the grid size in terminal cells.
func (s *Surface) Columns() int { return s.grid.w }
func (s *Surface) Rows() int    { return s.grid.h }

func (s *Surface) Save() {
	s.stack = append(s.stack, s.matrix)
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.matrix = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) { s.matrix = s.matrix.translate(x, y) }
func (s *Surface) Scale(x, y float64)     { s.matrix = s.matrix.scale(x, y) }

// FillBackground records the background color used when rendering.
func (s *Surface) FillBackground(c color.Color) {
	s.background = hex(c)
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64, c color.Color) {
	mx0, my0 := s.micro(x1, y1)
	mx1, my1 := s.micro(x2, y2)
	s.grid.line(mx0, my0, mx1, my1, hex(c))
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	ax, ay := s.micro(x, y)
	bx, by := s.micro(x+w, y+h)
	s.grid.rect(span(ax, bx), span(ay, by), hex(c))
}

// Dots returns the number of lit braille dots.
func (s *Surface) Dots() int {
	return s.grid.dots()
}

// Lines returns the grid as plain braille text, one string per row.
func (s *Surface) Lines() []string {
	out := make([]string, s.grid.h)
	for y := 0; y < s.grid.h; y++ {
		row := make([]rune, s.grid.w)
		for x := 0; x < s.grid.w; x++ {
			row[x] = cellRune(s.grid.mask[y][x])
		}
		out[y] = string(row)
	}
	return out
}

// String renders the grid with per-cell colors.
func (s *Surface) String() string {
	if s.plain {
		return strings.Join(s.Lines(), "\n")
	}
	base := lipgloss.NewStyle()
	if s.background != "" {
		base = base.Background(lipgloss.Color(s.background))
	}
	lines := make([]string, s.grid.h)
	var b strings.Builder
	for y := 0; y < s.grid.h; y++ {
		b.Reset()
		for x := 0; x < s.grid.w; x++ {
			mask := s.grid.mask[y][x]
			style := base
			if mask != 0 && s.grid.colors[y][x] != "" {
				style = style.Foreground(lipgloss.Color(s.grid.colors[y][x]))
			}
			b.WriteString(style.Render(string(cellRune(mask))))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Surface) micro(x, y float64) (int, int) {
	tx, ty := s.matrix.apply(x, y)
	return int(math.Floor(tx * s.factor)), int(math.Floor(ty * s.factor))
}

func cellRune(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

func hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

// span turns two corner coordinates into an inclusive dot range. A
// rectangle thinner than one dot still lights the dot it starts in.
func span(a, b int) [2]int {
	lo, hi := min(a, b), max(a, b)
	if hi > lo {
		hi--
	}
	return [2]int{lo, hi}
}
