package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// EqualWithin reports whether a and b are within tol of each other.
func EqualWithin(a, b, tol float64) bool {
	return scalar.EqualWithinAbs(a, b, tol)
}

// PointsEqualWithin reports whether both coordinates of a and b are within tol.
func PointsEqualWithin(a, b Point2D, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IncludedAngle returns the angle in radians between two vectors, in [0, pi].
// The dot product is clamped to [-1, 1] to guard against floating drift.
func IncludedAngle(u, v Point2D) float64 {
	lu := u.Length()
	lv := v.Length()
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := Clamp(u.Dot(v)/(lu*lv), -1, 1)
	return math.Acos(cos)
}

// SignedAngle returns the signed angle in radians from u to v, in (-pi, pi].
// Positive means counter-clockwise.
func SignedAngle(u, v Point2D) float64 {
	return math.Atan2(u.Cross(v), u.Dot(v))
}

// LineIntersection computes the intersection of two infinite lines given as a
// point and a direction each. Returns false when the lines are parallel or a
// direction is degenerate.
func LineIntersection(p1, d1, p2, d2 Point2D) (Point2D, bool) {
	// p1 + t*d1 = p2 + s*d2, solved as a 2x2 linear system.
	a := mat.NewDense(2, 2, []float64{
		d1.X, -d2.X,
		d1.Y, -d2.Y,
	})
	b := mat.NewVecDense(2, []float64{p2.X - p1.X, p2.Y - p1.Y})

	var ts mat.VecDense
	if err := ts.SolveVec(a, b); err != nil {
		return Point2D{}, false
	}
	t := ts.AtVec(0)
	return Point2D{X: p1.X + t*d1.X, Y: p1.Y + t*d1.Y}, true
}

// Smoothstep is the cubic Hermite easing 3t^2 - 2t^3, clamped to [0, 1].
func Smoothstep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Smootherstep is the quintic easing 6t^5 - 15t^4 + 10t^3, clamped to [0, 1].
// Both the first and second derivatives are zero at the endpoints.
func Smootherstep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * t * (t*(t*6-15) + 10)
}

// CubicBezier evaluates a cubic Bezier curve at parameter t.
func CubicBezier(p0, p1, p2, p3 Point2D, t float64) Point2D {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point2D{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// SampleCubicBezier evaluates a cubic Bezier at steps+1 evenly spaced
// parameters from 0 to 1 inclusive.
func SampleCubicBezier(p0, p1, p2, p3 Point2D, steps int) []Point2D {
	if steps < 1 {
		steps = 1
	}
	points := make([]Point2D, steps+1)
	for i := 0; i <= steps; i++ {
		points[i] = CubicBezier(p0, p1, p2, p3, float64(i)/float64(steps))
	}
	return points
}

// ArcCenter computes the center and radius of the circular arc from start to
// end with the given signed sweep angle in degrees. Returns false for a
// degenerate chord or a near-zero sweep.
func ArcCenter(start, end Point2D, sweepDeg float64) (Point2D, float64, bool) {
	chord := start.Distance(end)
	sweep := sweepDeg * math.Pi / 180
	if chord < 1e-12 || math.Abs(sweep) < 1e-9 {
		return Point2D{}, 0, false
	}
	radius := chord / (2 * math.Sin(math.Abs(sweep)/2))

	mid := Lerp(start, end, 0.5)
	// Perpendicular offset from the chord midpoint to the center; a positive
	// (counter-clockwise) sweep puts the center left of the chord.
	h := radius * math.Cos(math.Abs(sweep)/2)
	n := end.Sub(start).Normalize().Perp()
	if sweepDeg < 0 {
		h = -h
	}
	return mid.Add(n.Scale(h)), radius, true
}

// SampleArc returns steps+1 points along the arc from start to end with the
// given signed sweep in degrees. Falls back to the chord when degenerate.
func SampleArc(start, end Point2D, sweepDeg float64, steps int) []Point2D {
	if steps < 1 {
		steps = 1
	}
	center, _, ok := ArcCenter(start, end, sweepDeg)
	if !ok {
		return []Point2D{start, end}
	}
	sweep := sweepDeg * math.Pi / 180
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	r := start.Distance(center)

	points := make([]Point2D, steps+1)
	for i := 0; i <= steps; i++ {
		a := a0 + sweep*float64(i)/float64(steps)
		points[i] = Point2D{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	points[steps] = end
	return points
}
