// Package board defines the flattened primitive records the core operates on:
// straight track segments, arcs, pads, vias and filled regions, plus the
// quantized point keys and tolerance-based equality used to compare them.
package board

import (
	"fmt"

	"pcb-polish/pkg/geometry"
)

// CoordTol is the tolerance used when comparing coordinates and widths of
// primitive records. It matches the 3-decimal quantization of point keys.
const CoordTol = 1e-3

// Info identifies a board in the host editor.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineRecord is a flattened straight-track primitive.
type LineRecord struct {
	ID    string  `json:"id"`
	Net   string  `json:"net"`
	Layer string  `json:"layer"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`

	// Owner is the ID of the polyline primitive this record was subdivided
	// from, or empty for a plain two-point track. Owner-bearing records are
	// internal bookkeeping and are never created in the host store.
	Owner string `json:"owner,omitempty"`
}

// Start returns the first endpoint.
func (l LineRecord) Start() geometry.Point2D {
	return geometry.Point2D{X: l.X1, Y: l.Y1}
}

// End returns the second endpoint.
func (l LineRecord) End() geometry.Point2D {
	return geometry.Point2D{X: l.X2, Y: l.Y2}
}

// ArcRecord is a circular-arc track primitive. Sweep is the signed angular
// extent in degrees, positive for a counter-clockwise turn.
type ArcRecord struct {
	ID    string  `json:"id"`
	Net   string  `json:"net"`
	Layer string  `json:"layer"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Sweep float64 `json:"sweep"`
	Width float64 `json:"width"`
}

// Start returns the arc's start point.
func (a ArcRecord) Start() geometry.Point2D {
	return geometry.Point2D{X: a.X1, Y: a.Y1}
}

// End returns the arc's end point.
func (a ArcRecord) End() geometry.Point2D {
	return geometry.Point2D{X: a.X2, Y: a.Y2}
}

// PadRecord is a pad primitive, reduced to the circular footprint the core
// needs for teardrop generation.
type PadRecord struct {
	ID       string  `json:"id"`
	Net      string  `json:"net"`
	Layer    string  `json:"layer"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
}

// Center returns the pad center.
func (p PadRecord) Center() geometry.Point2D {
	return geometry.Point2D{X: p.X, Y: p.Y}
}

// ViaRecord is a via primitive.
type ViaRecord struct {
	ID       string  `json:"id"`
	Net      string  `json:"net"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
}

// Center returns the via center.
func (v ViaRecord) Center() geometry.Point2D {
	return geometry.Point2D{X: v.X, Y: v.Y}
}

// RegionRecord is a filled copper polygon. Name tags regions the core owns
// so re-running a pass can find and replace its own output.
type RegionRecord struct {
	ID      string             `json:"id"`
	Net     string             `json:"net"`
	Layer   string             `json:"layer"`
	Name    string             `json:"name"`
	Polygon []geometry.Point2D `json:"polygon"`
}

// Segment is the in-memory working form of a straight track leg. Segments
// flattened from a polyline primitive carry the owning polyline's ID in
// Owner and a synthetic suffixed ID; those never leave the process.
type Segment struct {
	ID    string
	Owner string
	Net   string
	Layer string
	Start geometry.Point2D
	End   geometry.Point2D
	Width float64
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// DeleteID returns the host-store ID deleting this segment removes: the
// owning polyline for a flattened leg, otherwise the segment's own ID.
func (s Segment) DeleteID() string {
	if s.Owner != "" {
		return s.Owner
	}
	return s.ID
}

// Record returns the segment as a flattened line record.
func (s Segment) Record() LineRecord {
	return LineRecord{
		ID:    s.ID,
		Net:   s.Net,
		Layer: s.Layer,
		X1:    s.Start.X,
		Y1:    s.Start.Y,
		X2:    s.End.X,
		Y2:    s.End.Y,
		Width: s.Width,
		Owner: s.Owner,
	}
}

// PointKey quantizes a point to a 3-decimal string key, tolerating the
// floating drift between segments that share an endpoint.
func PointKey(p geometry.Point2D) string {
	return fmt.Sprintf("%.3f,%.3f", p.X, p.Y)
}

// LinesEqual reports whether two line records describe the same track: same
// ID, net and layer, with endpoints and width within CoordTol. An ID
// mismatch is decisive regardless of geometry.
func LinesEqual(a, b LineRecord) bool {
	if a.ID != b.ID || a.Net != b.Net || a.Layer != b.Layer {
		return false
	}
	return geometry.EqualWithin(a.X1, b.X1, CoordTol) &&
		geometry.EqualWithin(a.Y1, b.Y1, CoordTol) &&
		geometry.EqualWithin(a.X2, b.X2, CoordTol) &&
		geometry.EqualWithin(a.Y2, b.Y2, CoordTol) &&
		geometry.EqualWithin(a.Width, b.Width, CoordTol)
}

// ArcsEqual reports whether two arc records describe the same arc.
func ArcsEqual(a, b ArcRecord) bool {
	if a.ID != b.ID || a.Net != b.Net || a.Layer != b.Layer {
		return false
	}
	return geometry.EqualWithin(a.X1, b.X1, CoordTol) &&
		geometry.EqualWithin(a.Y1, b.Y1, CoordTol) &&
		geometry.EqualWithin(a.X2, b.X2, CoordTol) &&
		geometry.EqualWithin(a.Y2, b.Y2, CoordTol) &&
		geometry.EqualWithin(a.Sweep, b.Sweep, CoordTol) &&
		geometry.EqualWithin(a.Width, b.Width, CoordTol)
}
