package geometry

import (
	"math"
	"testing"
)

const testTol = 1e-9

func almostEqual(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestIncludedAngle(t *testing.T) {
	tests := []struct {
		name string
		u, v Point2D
		want float64
	}{
		{"right angle", Point2D{X: 1}, Point2D{Y: 1}, math.Pi / 2},
		{"straight through", Point2D{X: -1}, Point2D{X: 1}, math.Pi},
		{"reversal", Point2D{X: 1}, Point2D{X: 2}, 0},
		{"45 degrees", Point2D{X: 1}, Point2D{X: 1, Y: 1}, math.Pi / 4},
		{"zero vector", Point2D{}, Point2D{X: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			almostEqual(t, IncludedAngle(tt.u, tt.v), tt.want, testTol, "IncludedAngle")
		})
	}
}

func TestSignedAngle(t *testing.T) {
	tests := []struct {
		name string
		u, v Point2D
		want float64
	}{
		{"ccw quarter", Point2D{X: 1}, Point2D{Y: 1}, math.Pi / 2},
		{"cw quarter", Point2D{X: 1}, Point2D{Y: -1}, -math.Pi / 2},
		{"no turn", Point2D{X: 1}, Point2D{X: 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			almostEqual(t, SignedAngle(tt.u, tt.v), tt.want, testTol, "SignedAngle")
		})
	}
}

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Point2D{}, Point2D{X: 1}, Point2D{X: 5, Y: -3}, Point2D{Y: 1})
	if !ok {
		t.Fatal("expected intersection")
	}
	if !PointsEqualWithin(p, Point2D{X: 5, Y: 0}, testTol) {
		t.Errorf("intersection = %v, want (5,0)", p)
	}

	if _, ok := LineIntersection(Point2D{}, Point2D{X: 1}, Point2D{Y: 1}, Point2D{X: 2}); ok {
		t.Error("parallel lines should not intersect")
	}
}

func TestSmootherstep(t *testing.T) {
	almostEqual(t, Smootherstep(0), 0, testTol, "Smootherstep(0)")
	almostEqual(t, Smootherstep(1), 1, testTol, "Smootherstep(1)")
	almostEqual(t, Smootherstep(0.5), 0.5, testTol, "Smootherstep(0.5)")
	almostEqual(t, Smootherstep(-2), 0, testTol, "Smootherstep(-2)")
	almostEqual(t, Smootherstep(3), 1, testTol, "Smootherstep(3)")

	// The quintic has flat first and second derivatives at both ends, so
	// values very near the ends stay very near the ends.
	if Smootherstep(0.01) > 1e-4 {
		t.Errorf("Smootherstep(0.01) = %v, expected near zero", Smootherstep(0.01))
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	p0 := Point2D{X: 0, Y: 0}
	p1 := Point2D{X: 1, Y: 2}
	p2 := Point2D{X: 3, Y: 2}
	p3 := Point2D{X: 4, Y: 0}

	if got := CubicBezier(p0, p1, p2, p3, 0); !PointsEqualWithin(got, p0, testTol) {
		t.Errorf("t=0 gave %v, want %v", got, p0)
	}
	if got := CubicBezier(p0, p1, p2, p3, 1); !PointsEqualWithin(got, p3, testTol) {
		t.Errorf("t=1 gave %v, want %v", got, p3)
	}

	pts := SampleCubicBezier(p0, p1, p2, p3, 8)
	if len(pts) != 9 {
		t.Fatalf("expected 9 samples, got %d", len(pts))
	}
	if !PointsEqualWithin(pts[0], p0, testTol) || !PointsEqualWithin(pts[8], p3, testTol) {
		t.Error("sampled endpoints do not match control endpoints")
	}
}

func TestArcCenter(t *testing.T) {
	// Quarter circle from (8,0) to (10,2) turning counter-clockwise: the
	// center is at (8,2) with radius 2.
	center, radius, ok := ArcCenter(Point2D{X: 8}, Point2D{X: 10, Y: 2}, 90)
	if !ok {
		t.Fatal("expected a valid arc")
	}
	almostEqual(t, radius, 2, 1e-9, "radius")
	if !PointsEqualWithin(center, Point2D{X: 8, Y: 2}, 1e-9) {
		t.Errorf("center = %v, want (8,2)", center)
	}

	// Mirrored turn direction flips the center to the other side.
	center, _, ok = ArcCenter(Point2D{X: 8}, Point2D{X: 10, Y: 2}, -90)
	if !ok {
		t.Fatal("expected a valid arc")
	}
	if !PointsEqualWithin(center, Point2D{X: 10, Y: 0}, 1e-9) {
		t.Errorf("center = %v, want (10,0)", center)
	}
}

func TestSampleArc(t *testing.T) {
	pts := SampleArc(Point2D{X: 8}, Point2D{X: 10, Y: 2}, 90, 16)
	if len(pts) != 17 {
		t.Fatalf("expected 17 samples, got %d", len(pts))
	}
	center := Point2D{X: 8, Y: 2}
	for i, p := range pts {
		almostEqual(t, p.Distance(center), 2, 1e-9, "sample radius")
		_ = i
	}
	if !PointsEqualWithin(pts[16], Point2D{X: 10, Y: 2}, testTol) {
		t.Errorf("last sample = %v, want (10,2)", pts[16])
	}
}

func TestPolylineLength(t *testing.T) {
	pts := []Point2D{{0, 0}, {10, 0}, {10, 10}}
	almostEqual(t, PolylineLength(pts), 20, testTol, "PolylineLength")
	almostEqual(t, PolylineLength(nil), 0, testTol, "PolylineLength(nil)")
}
