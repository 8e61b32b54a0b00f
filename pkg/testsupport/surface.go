package testsupport

import (
	"image/color"

	"github.com/goliatone/go-fractalview/pkg/surface"
)

// OpKind names a recorded surface call.
type OpKind string

const (
	OpResize     OpKind = "resize"
	OpSave       OpKind = "save"
	OpRestore    OpKind = "restore"
	OpTranslate  OpKind = "translate"
	OpScale      OpKind = "scale"
	OpBackground OpKind = "background"
	OpStroke     OpKind = "stroke"
	OpFill       OpKind = "fill"
)

// Op is one recorded call. Coordinates are in user space; DX/DY hold the
// device space position of the first point after the current transform.
type Op struct {
	Kind           OpKind
	X1, Y1, X2, Y2 float64
	DX, DY         float64
	Color          color.Color
}

type transform struct {
	sx, sy, tx, ty float64
}

// RecordingSurface is a surface.Surface that records every call. It supports
// the translate/scale subset of transforms the renderers use.
type RecordingSurface struct {
	width, height int

	ops   []Op
	cur   transform
	stack []transform
}

var _ surface.Surface = (*RecordingSurface)(nil)

// NewRecordingSurface returns an empty recorder.
func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{cur: transform{sx: 1, sy: 1}}
}

func (r *RecordingSurface) Resize(width, height int) {
	r.width, r.height = width, height
	r.cur = transform{sx: 1, sy: 1}
	r.stack = nil
	r.ops = append(r.ops, Op{Kind: OpResize, X1: float64(width), Y1: float64(height)})
}

func (r *RecordingSurface) Width() int  { return r.width }
func (r *RecordingSurface) Height() int { return r.height }

func (r *RecordingSurface) Save() {
	r.stack = append(r.stack, r.cur)
	r.ops = append(r.ops, Op{Kind: OpSave})
}

func (r *RecordingSurface) Restore() {
	if n := len(r.stack); n > 0 {
		r.cur = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.ops = append(r.ops, Op{Kind: OpRestore})
}

func (r *RecordingSurface) Translate(x, y float64) {
	r.cur.tx += r.cur.sx * x
	r.cur.ty += r.cur.sy * y
	r.ops = append(r.ops, Op{Kind: OpTranslate, X1: x, Y1: y})
}

func (r *RecordingSurface) Scale(x, y float64) {
	r.cur.sx *= x
	r.cur.sy *= y
	r.ops = append(r.ops, Op{Kind: OpScale, X1: x, Y1: y})
}

func (r *RecordingSurface) FillBackground(c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpBackground, Color: c})
}

func (r *RecordingSurface) StrokeLine(x1, y1, x2, y2 float64, c color.Color) {
	dx, dy := r.device(x1, y1)
	r.ops = append(r.ops, Op{Kind: OpStroke, X1: x1, Y1: y1, X2: x2, Y2: y2, DX: dx, DY: dy, Color: c})
}

func (r *RecordingSurface) FillRect(x, y, w, h float64, c color.Color) {
	dx, dy := r.device(x, y)
	r.ops = append(r.ops, Op{Kind: OpFill, X1: x, Y1: y, X2: x + w, Y2: y + h, DX: dx, DY: dy, Color: c})
}

// Ops returns every recorded call in order.
func (r *RecordingSurface) Ops() []Op {
	return r.ops
}

// Filter returns the recorded calls of one kind.
func (r *RecordingSurface) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Count returns how many calls of kind were recorded.
func (r *RecordingSurface) Count(kind OpKind) int {
	return len(r.Filter(kind))
}

// Kinds returns the sequence of recorded call kinds.
func (r *RecordingSurface) Kinds() []OpKind {
	out := make([]OpKind, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op.Kind)
	}
	return out
}

// Depth returns the current save stack depth.
func (r *RecordingSurface) Depth() int {
	return len(r.stack)
}

func (r *RecordingSurface) device(x, y float64) (float64, float64) {
	return r.cur.sx*x + r.cur.tx, r.cur.sy*y + r.cur.ty
}
