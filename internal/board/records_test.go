package board

import (
	"testing"

	"pcb-polish/pkg/geometry"
)

func TestPointKey(t *testing.T) {
	tests := []struct {
		name string
		p    geometry.Point2D
		want string
	}{
		{"exact", geometry.Point2D{X: 1, Y: 2}, "1.000,2.000"},
		{"drift under half a thousandth", geometry.Point2D{X: 1.0004, Y: 2.0004}, "1.000,2.000"},
		{"negative", geometry.Point2D{X: -0.5, Y: 0}, "-0.500,0.000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointKey(tt.p); got != tt.want {
				t.Errorf("PointKey(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointKeyMatchesNearbyEndpoints(t *testing.T) {
	a := geometry.Point2D{X: 10.0001, Y: 5.0002}
	b := geometry.Point2D{X: 9.9999, Y: 4.9998}
	if PointKey(a) != PointKey(b) {
		t.Errorf("keys differ: %q vs %q", PointKey(a), PointKey(b))
	}
}

func TestLinesEqual(t *testing.T) {
	base := LineRecord{ID: "l1", Net: "GND", Layer: "top", X1: 0, Y1: 0, X2: 10, Y2: 0, Width: 6}

	t.Run("identical", func(t *testing.T) {
		if !LinesEqual(base, base) {
			t.Error("record should equal itself")
		}
	})
	t.Run("within tolerance", func(t *testing.T) {
		b := base
		b.X2 = 10.0005
		b.Width = 6.0005
		if !LinesEqual(base, b) {
			t.Error("sub-tolerance drift should compare equal")
		}
	})
	t.Run("width differs", func(t *testing.T) {
		b := base
		b.Width = 6.1
		if LinesEqual(base, b) {
			t.Error("width change should compare unequal")
		}
	})
	t.Run("id mismatch is decisive", func(t *testing.T) {
		b := base
		b.ID = "l2"
		if LinesEqual(base, b) {
			t.Error("same geometry under a different ID is a different track")
		}
	})
}

func TestArcsEqualComparesSweep(t *testing.T) {
	a := ArcRecord{ID: "a1", Net: "SIG", Layer: "top", X1: 8, Y1: 0, X2: 10, Y2: 2, Sweep: 90, Width: 6}
	b := a
	b.Sweep = -90
	if ArcsEqual(a, b) {
		t.Error("arcs with opposite sweep should compare unequal")
	}
}

func TestSegmentDeleteID(t *testing.T) {
	plain := Segment{ID: "l1"}
	if plain.DeleteID() != "l1" {
		t.Errorf("plain segment deletes by its own ID, got %q", plain.DeleteID())
	}
	leg := Segment{ID: "p1#2", Owner: "p1"}
	if leg.DeleteID() != "p1" {
		t.Errorf("polyline leg deletes by owner ID, got %q", leg.DeleteID())
	}
}
