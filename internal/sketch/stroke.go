// Package sketch implements freehand route annotations: the stroke data
// model, the finalized stroke collection, and the live capture engine that
// turns raw pointer input into decimated, smoothed strokes.
package sketch

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// ToolPen is the only drawing tool currently supported.
const ToolPen = "pen"

// Stroke is a finalized freehand annotation in native map coordinates.
// Points holds the coordinate pairs flattened as [x1,y1,x2,y2,...] in
// drawing order; a valid stroke has an even number of values and at least
// one pair.
type Stroke struct {
	ID     string    `json:"id"`
	Tool   string    `json:"tool"`
	Width  float64   `json:"width"`
	Points []float64 `json:"points"`
}

// PointCount returns the number of coordinate pairs in the stroke.
func (s Stroke) PointCount() int {
	return len(s.Points) / 2
}

// LineString converts the stroke path to a simplefeatures line string for
// geometry storage. A single-point stroke is encoded as a degenerate
// two-point line string since the WKB form requires at least two points.
func (s Stroke) LineString() (geom.LineString, error) {
	if len(s.Points) < 2 || len(s.Points)%2 != 0 {
		return geom.LineString{}, fmt.Errorf("stroke %s has invalid point sequence of length %d", s.ID, len(s.Points))
	}
	flat := s.Points
	if len(flat) == 2 {
		flat = []float64{flat[0], flat[1], flat[0], flat[1]}
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("stroke %s: %w", s.ID, err)
	}
	return ls, nil
}

// PathFromLineString extracts the flattened point sequence from a stored
// line string, collapsing the degenerate duplicate produced by LineString
// for single-point strokes.
func PathFromLineString(ls geom.LineString) []float64 {
	seq := ls.Coordinates()
	flat := make([]float64, 0, seq.Length()*2)
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		flat = append(flat, xy.X, xy.Y)
	}
	if len(flat) == 4 && flat[0] == flat[2] && flat[1] == flat[3] {
		flat = flat[:2]
	}
	return flat
}

// Append adds a finalized stroke to the end of the collection.
func Append(strokes []Stroke, s Stroke) []Stroke {
	return append(strokes, s)
}

// Undo removes the most recently finalized stroke. It is a no-op on an
// empty collection.
func Undo(strokes []Stroke) []Stroke {
	if len(strokes) == 0 {
		return strokes
	}
	return strokes[:len(strokes)-1]
}

// Clear removes all strokes.
func Clear(strokes []Stroke) []Stroke {
	return strokes[:0]
}
