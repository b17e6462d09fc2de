package route

import (
	"testing"

	"pcb-polish/internal/board"
	"pcb-polish/pkg/geometry"
)

func seg(id string, x1, y1, x2, y2 float64) board.Segment {
	return board.Segment{
		ID:    id,
		Net:   "SIG",
		Layer: "top",
		Start: geometry.Point2D{X: x1, Y: y1},
		End:   geometry.Point2D{X: x2, Y: y2},
		Width: 4,
	}
}

func TestReconstructSimpleCorner(t *testing.T) {
	paths := Reconstruct([]board.Segment{
		seg("a", 0, 0, 10, 0),
		seg("b", 10, 0, 10, 10),
	})
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	p := paths[0]
	if len(p.Points) != 3 || len(p.Segments) != 2 {
		t.Fatalf("expected 3 points / 2 segments, got %d / %d", len(p.Points), len(p.Segments))
	}
}

func TestReconstructUnorderedAndReversedSegments(t *testing.T) {
	// Same polyline, segments given out of order and with mixed endpoint
	// orientation.
	paths := Reconstruct([]board.Segment{
		seg("c", 20, 10, 10, 10),
		seg("a", 0, 0, 10, 0),
		seg("b", 10, 10, 10, 0),
	})
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	p := paths[0]
	if len(p.Points) != 4 {
		t.Fatalf("expected 4 points, got %d: %v", len(p.Points), p.Points)
	}
	// The walk must visit the vertices consecutively in either direction.
	first := p.Points[0]
	wantEnds := []geometry.Point2D{{X: 0, Y: 0}, {X: 20, Y: 10}}
	if !geometry.PointsEqualWithin(first, wantEnds[0], 1e-9) && !geometry.PointsEqualWithin(first, wantEnds[1], 1e-9) {
		t.Errorf("path does not start at an endpoint: %v", p.Points)
	}
	for i := 1; i < len(p.Points); i++ {
		if p.Points[i-1].Distance(p.Points[i]) < 1e-9 {
			t.Errorf("repeated point at %d: %v", i, p.Points)
		}
	}
}

func TestReconstructStopsAtBranchPoint(t *testing.T) {
	// T junction at (10,0): three segments meet, so no path may run
	// through it.
	paths := Reconstruct([]board.Segment{
		seg("a", 0, 0, 10, 0),
		seg("b", 10, 0, 20, 0),
		seg("c", 10, 0, 10, 10),
		seg("d", 20, 0, 20, 10),
	})
	for _, p := range paths {
		for _, pt := range p.Points[1 : len(p.Points)-1] {
			if board.PointKey(pt) == board.PointKey(geometry.Point2D{X: 10, Y: 0}) {
				t.Errorf("path runs through branch point: %v", p.Points)
			}
		}
	}
}

func TestReconstructDropsIsolatedSegments(t *testing.T) {
	paths := Reconstruct([]board.Segment{
		seg("a", 0, 0, 10, 0),
		seg("b", 50, 50, 60, 50),
	})
	if len(paths) != 0 {
		t.Errorf("isolated two-point segments are not cornerable, got %d paths", len(paths))
	}
}

func TestReconstructToleratesEndpointDrift(t *testing.T) {
	// Endpoints a few ten-thousandths apart quantize to the same key.
	paths := Reconstruct([]board.Segment{
		seg("a", 0, 0, 10.0002, 0),
		seg("b", 9.9998, 0.0001, 10, 10),
	})
	if len(paths) != 1 {
		t.Fatalf("drifted endpoints should still connect, got %d paths", len(paths))
	}
}

func TestGroupSegments(t *testing.T) {
	a := seg("a", 0, 0, 1, 0)
	b := seg("b", 0, 0, 1, 0)
	b.Net = "GND"
	c := seg("c", 0, 0, 1, 0)
	c.Layer = "bottom"

	groups := GroupSegments([]board.Segment{a, b, c})
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if len(groups[GroupKey{Net: "SIG", Layer: "top"}]) != 1 {
		t.Error("wrong grouping for net SIG / layer top")
	}
}
