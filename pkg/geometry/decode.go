package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireGeometry is the JSON document emitted by the external generator.
type wireGeometry struct {
	Family  string            `json:"family"`
	Bounds  []float64         `json:"bounds"`
	Sources int               `json:"sources,omitempty"`
	Points  []json.RawMessage `json:"points"`
}

type wireMeta struct {
	Paintable   *bool `json:"paintable,omitempty"`
	MatrixNum   *int  `json:"matrixNum,omitempty"`
	SourceIndex *int  `json:"sourceIndex,omitempty"`
}

// Decode parses a geometry document. fallback is used when the document does
// not carry its own family field.
func Decode(data []byte, fallback Family) (Geometry, error) {
	var wire wireGeometry
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wire); err != nil {
		return Geometry{}, fmt.Errorf("geometry: decode: %w", err)
	}

	family := fallback
	if wire.Family != "" {
		parsed, err := ParseFamily(wire.Family)
		if err != nil {
			return Geometry{}, err
		}
		family = parsed
	}

	bounds, err := BoundsFromSlice(wire.Bounds)
	if err != nil {
		return Geometry{}, err
	}

	points := make([]Point, 0, len(wire.Points))
	for idx, raw := range wire.Points {
		point, err := decodePoint(raw, family)
		if err != nil {
			return Geometry{}, fmt.Errorf("geometry: point %d: %w", idx, err)
		}
		points = append(points, point)
	}

	return Geometry{
		Family:      family,
		Bounds:      bounds,
		Points:      points,
		SourceCount: wire.Sources,
	}, nil
}

// UnmarshalJSON implements json.Unmarshaler for the generator document.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data, g.Family)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

// MarshalJSON writes the same document shape Decode reads.
func (g Geometry) MarshalJSON() ([]byte, error) {
	wire := struct {
		Family  string    `json:"family"`
		Bounds  []float64 `json:"bounds"`
		Sources int       `json:"sources,omitempty"`
		Points  [][3]any  `json:"points"`
	}{
		Family:  string(g.Family),
		Bounds:  g.Bounds.Slice(),
		Sources: g.SourceCount,
		Points:  make([][3]any, 0, len(g.Points)),
	}
	for _, p := range g.Points {
		var meta any
		switch m := p.Meta.(type) {
		case LineMeta:
			meta = map[string]any{"paintable": m.Paintable}
		case FillMeta:
			meta = map[string]any{"matrixNum": m.SourceIndex}
		default:
			meta = map[string]any{}
		}
		wire.Points = append(wire.Points, [3]any{p.X, p.Y, meta})
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a single [x, y, meta] triple. Without a family the
// metadata variant comes from its fields alone; bare points get nil metadata.
func (p *Point) UnmarshalJSON(data []byte) error {
	point, err := decodePoint(data, "")
	if err != nil {
		return fmt.Errorf("geometry: point: %w", err)
	}
	*p = point
	return nil
}

// decodePoint reads a [x, y] or [x, y, {meta}] triple.
func decodePoint(raw json.RawMessage, family Family) (Point, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return Point{}, err
	}
	if len(parts) < 2 || len(parts) > 3 {
		return Point{}, fmt.Errorf("expected [x, y, meta], got %d elements", len(parts))
	}

	var point Point
	if err := json.Unmarshal(parts[0], &point.X); err != nil {
		return Point{}, fmt.Errorf("x: %w", err)
	}
	if err := json.Unmarshal(parts[1], &point.Y); err != nil {
		return Point{}, fmt.Errorf("y: %w", err)
	}

	var meta wireMeta
	if len(parts) == 3 && !bytes.Equal(bytes.TrimSpace(parts[2]), []byte("null")) {
		if err := json.Unmarshal(parts[2], &meta); err != nil {
			return Point{}, fmt.Errorf("meta: %w", err)
		}
	}
	point.Meta = meta.resolve(family)
	return point, nil
}

func (m wireMeta) resolve(family Family) Metadata {
	switch {
	case m.Paintable != nil:
		return LineMeta{Paintable: *m.Paintable}
	case m.MatrixNum != nil:
		return FillMeta{SourceIndex: *m.MatrixNum}
	case m.SourceIndex != nil:
		return FillMeta{SourceIndex: *m.SourceIndex}
	}
	switch family {
	case FamilyLines:
		return LineMeta{}
	case FamilyFill:
		return FillMeta{}
	default:
		return nil
	}
}
