package braille

// grid is a braille micro-grid: every terminal cell holds 2x4 dots encoded as
// the low byte of a U+2800 code point. Each cell also remembers the color of
// the last dot set in it.
type grid struct {
	w, h   int // in cells
	mask   [][]uint8
	colors [][]string
}

func newGrid(w, h int) *grid {
	mask := make([][]uint8, h)
	colors := make([][]string, h)
	for i := range mask {
		mask[i] = make([]uint8, w)
		colors[i] = make([]string, w)
	}
	return &grid{w: w, h: h, mask: mask, colors: colors}
}

// dotBits maps (column, row) inside a cell to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (g *grid) set(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= g.h || cx >= g.w {
		return
	}
	g.mask[cy][cx] |= dotBits[rx][ry]
	g.colors[cy][cx] = color
}

// line draws with Bresenham on the micro-grid.
func (g *grid) line(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		g.set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *grid) rect(xs, ys [2]int, color string) {
	for y := ys[0]; y <= ys[1]; y++ {
		for x := xs[0]; x <= xs[1]; x++ {
			g.set(x, y, color)
		}
	}
}

func (g *grid) dots() int {
	total := 0
	for _, row := range g.mask {
		for _, m := range row {
			for ; m != 0; m &= m - 1 {
				total++
			}
		}
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
