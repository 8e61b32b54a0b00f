package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// Margin is the padding, in surface units, kept between the figure and the
	// surface edge on the negative-coordinate side.
	Margin = 10
	// Padding is the total extra size added to each surface dimension.
	Padding = 2 * Margin
)

// ErrUnknownFamily is returned when a family identifier cannot be resolved.
var ErrUnknownFamily = errors.New("geometry: unknown fractal family")

// Family identifies how a point sequence should be interpreted and drawn.
type Family string

const (
	// FamilyLines is a connected path with selective segment visibility
	// (rule-expansion fractals).
	FamilyLines Family = "l"
	// FamilyFill is an unordered point cloud colored by originating transform
	// (iterated-map fractals).
	FamilyFill Family = "ifs"
)

// Families lists the supported families in display order.
func Families() []Family {
	return []Family{FamilyLines, FamilyFill}
}

// ParseFamily resolves short codes ("l", "ifs") and long names ("lines",
// "lsystem", "fill") into a Family.
func ParseFamily(raw string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "l", "line", "lines", "lsystem", "l-system":
		return FamilyLines, nil
	case "ifs", "fill", "area", "points":
		return FamilyFill, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFamily, raw)
	}
}

// String returns the short family code.
func (f Family) String() string {
	return string(f)
}

// Label is a human readable family name used by the page and CLI prompts.
func (f Family) Label() string {
	switch f {
	case FamilyLines:
		return "L-System"
	case FamilyFill:
		return "IFS"
	default:
		return string(f)
	}
}

// Metadata is the family specific payload attached to every point. The set of
// implementations is closed: LineMeta and FillMeta.
type Metadata interface {
	family() Family
}

// LineMeta carries line family metadata.
type LineMeta struct {
	// Paintable reports whether the segment ending at this point is drawn.
	// False is a pen-up move.
	Paintable bool
}

func (LineMeta) family() Family { return FamilyLines }

// FillMeta carries area-fill family metadata.
type FillMeta struct {
	// SourceIndex is the index of the transform that produced the point. It
	// only drives color selection.
	SourceIndex int
}

func (FillMeta) family() Family { return FamilyFill }

// FamilyOf reports the family a metadata value belongs to, or "" for nil.
func FamilyOf(meta Metadata) Family {
	if meta == nil {
		return ""
	}
	return meta.family()
}

// Point is a generated coordinate and its metadata.
type Point struct {
	X, Y float64
	Meta Metadata
}

// Paintable returns the line metadata flag. Points carrying any other
// metadata are treated as not paintable.
func (p Point) Paintable() bool {
	if meta, ok := p.Meta.(LineMeta); ok {
		return meta.Paintable
	}
	return false
}

// SourceIndex returns the fill metadata transform index, 0 for any other
// metadata.
func (p Point) SourceIndex() int {
	if meta, ok := p.Meta.(FillMeta); ok {
		return meta.SourceIndex
	}
	return 0
}

// Bounds is the axis aligned extent of a point sequence. MinX and MinY are
// signed offsets from the generator origin and are expected to be <= 0.
type Bounds struct {
	MaxX float64
	MaxY float64
	MinX float64
	MinY float64
}

// BoundsFromSlice decodes the generator array form [maxX, maxY, minX, minY].
func BoundsFromSlice(values []float64) (Bounds, error) {
	if len(values) != 4 {
		return Bounds{}, fmt.Errorf("geometry: bounds need 4 values, got %d", len(values))
	}
	return Bounds{MaxX: values[0], MaxY: values[1], MinX: values[2], MinY: values[3]}, nil
}

// Slice returns the array form [maxX, maxY, minX, minY].
func (b Bounds) Slice() []float64 {
	return []float64{b.MaxX, b.MaxY, b.MinX, b.MinY}
}

// SurfaceSize returns the surface dimensions needed to hold the figure plus
// the fixed margin on both sides.
func (b Bounds) SurfaceSize() (width, height float64) {
	width = b.MaxX + math.Abs(b.MinX) + Padding
	height = b.MaxY + math.Abs(b.MinY) + Padding
	return width, height
}

// PixelSize is SurfaceSize truncated to whole pixels, the way a canvas
// dimension assignment truncates.
func (b Bounds) PixelSize() (width, height int) {
	w, h := b.SurfaceSize()
	return int(w), int(h)
}

// Geometry is one generation result.
type Geometry struct {
	Family Family
	Bounds Bounds
	Points []Point
	// SourceCount is the number of transforms used by an area-fill generator.
	// It normalises the per-point hue and is ignored by the line family.
	SourceCount int
}

// Len returns the number of points.
func (g Geometry) Len() int {
	return len(g.Points)
}
