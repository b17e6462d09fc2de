package route

import (
	"math"

	"pcb-polish/pkg/geometry"
)

// Tuning constants for corner rounding. The clamp factor keeps tangent
// points clear of the legs' far endpoints; the width tolerance is the slack
// allowed before an arc would cut into the trace's own copper. These are
// product constants, not derived values.
const (
	clampFactor      = 0.45
	materialClampAt  = 0.95
	widthFeasibleTol = 0.05
	mergeLegFactor   = 1.5

	// Corners within a degree of straight (or fully reversed) are left
	// as-is; there is nothing useful to round.
	degenerateAngleRad = math.Pi / 180
)

// PrimitiveType tags an output geometry primitive.
type PrimitiveType int

const (
	// PrimLine is a straight track.
	PrimLine PrimitiveType = iota
	// PrimArc is a circular arc track.
	PrimArc
)

// Primitive is one unit of replacement geometry. Sweep is the signed sweep
// angle in degrees and is meaningful for arcs only.
type Primitive struct {
	Type  PrimitiveType
	Start geometry.Point2D
	End   geometry.Point2D
	Sweep float64
	Width float64
}

// Plan is the replacement geometry for one path plus the per-corner
// outcome counts reported back to the user.
type Plan struct {
	Primitives []Primitive

	Rounded int // corners replaced by an arc (merged corners count once)
	Merged  int // short-segment merges performed
	Skipped int // corners kept straight: width-infeasible or degenerate
	Clamped int // corners kept straight because the clamp cut below 95% of ideal
}

// HasArcs reports whether the plan changes anything; a plan with no arcs
// reproduces the input path and is not worth executing.
func (p Plan) HasArcs() bool {
	for _, pr := range p.Primitives {
		if pr.Type == PrimArc {
			return true
		}
	}
	return false
}

// PlanCorners computes the replacement geometry for one path: every
// roundable interior corner becomes a tangent arc between two straight
// legs. Corners that cannot be rounded degrade to their original straight
// joint; the path as a whole never fails.
func PlanCorners(p Path, radius float64, mergeShort, forceArc bool) Plan {
	var plan Plan
	cursor := p.Points[0]

	for i := 1; i <= len(p.Points)-2; i++ {
		if mergeShort && i+2 <= len(p.Points)-1 {
			if t2, ok := tryMergeCorners(&plan, p, i, cursor, radius, forceArc); ok {
				cursor = t2
				plan.Rounded++
				plan.Merged++
				i++ // the merge consumed the next interior point too
				continue
			}
		}

		corner := p.Points[i]
		prev := p.Points[i-1]
		next := p.Points[i+1]
		wIn := p.Segments[i-1].Width
		wOut := p.Segments[i].Width

		arc, outcome := roundCorner(prev, corner, next, wIn, wOut, radius, forceArc)
		switch outcome {
		case cornerRounded:
			emitLine(&plan, cursor, arc.t1, wIn)
			plan.Primitives = append(plan.Primitives, Primitive{
				Type:  PrimArc,
				Start: arc.t1,
				End:   arc.t2,
				Sweep: arc.sweepDeg,
				Width: wOut,
			})
			cursor = arc.t2
			plan.Rounded++
		case cornerStraight:
			emitLine(&plan, cursor, corner, wIn)
			cursor = corner
		case cornerSkipped:
			emitLine(&plan, cursor, corner, wIn)
			cursor = corner
			plan.Skipped++
		case cornerClamped:
			emitLine(&plan, cursor, corner, wIn)
			cursor = corner
			plan.Clamped++
		}
	}

	last := p.Points[len(p.Points)-1]
	emitLine(&plan, cursor, last, p.Segments[len(p.Segments)-1].Width)
	return plan
}

type cornerOutcome int

const (
	cornerRounded cornerOutcome = iota
	cornerStraight
	cornerSkipped
	cornerClamped
)

type cornerArc struct {
	t1, t2   geometry.Point2D
	sweepDeg float64
}

// roundCorner computes the tangent arc for a single corner, or reports why
// it stays straight.
func roundCorner(prev, corner, next geometry.Point2D, wIn, wOut, radius float64, forceArc bool) (cornerArc, cornerOutcome) {
	v1 := prev.Sub(corner)
	v2 := next.Sub(corner)
	angle := geometry.IncludedAngle(v1, v2)

	// Nearly straight: tan(angle/2) blows up, the ideal tangent distance
	// goes to zero, and the corner needs no rounding. Nearly reversed:
	// degenerate the other way.
	if angle > math.Pi-degenerateAngleRad || angle < degenerateAngleRad {
		return cornerArc{}, cornerStraight
	}

	ideal := radius / math.Tan(angle/2)
	actualD := math.Min(ideal, clampFactor*math.Min(v1.Length(), v2.Length()))

	// The radius the clamped arc will actually draw. If it dips below half
	// the wider adjacent track the arc would self-intersect the copper.
	effective := actualD * math.Tan(angle/2)
	if effective < math.Max(wIn, wOut)/2-widthFeasibleTol {
		return cornerArc{}, cornerSkipped
	}

	if actualD < materialClampAt*ideal && !forceArc {
		return cornerArc{}, cornerClamped
	}

	t1 := corner.Add(v1.Normalize().Scale(actualD))
	t2 := corner.Add(v2.Normalize().Scale(actualD))
	sweep := geometry.SignedAngle(corner.Sub(prev), next.Sub(corner)) * 180 / math.Pi
	return cornerArc{t1: t1, t2: t2, sweepDeg: sweep}, cornerRounded
}

// tryMergeCorners attempts the short-segment merge at interior point i:
// when the leg between corners i and i+1 is shorter than 1.5x the radius
// and both corners turn the same way, the two outer legs are extended to
// their intersection and one larger arc is inscribed around that virtual
// corner, skipping the short middle leg entirely. Returns the arc's far
// tangent point on success.
func tryMergeCorners(plan *Plan, p Path, i int, cursor geometry.Point2D, radius float64, forceArc bool) (geometry.Point2D, bool) {
	prev := p.Points[i-1]
	c1 := p.Points[i]
	c2 := p.Points[i+1]
	after := p.Points[i+2]

	if c1.Distance(c2) >= mergeLegFactor*radius {
		return geometry.Point2D{}, false
	}

	// Both corners must turn in the same rotational sense or the merged
	// arc cannot follow the path.
	s1 := c1.Sub(prev).Cross(c2.Sub(c1))
	s2 := c2.Sub(c1).Cross(after.Sub(c2))
	if s1 == 0 || s2 == 0 || (s1 > 0) != (s2 > 0) {
		return geometry.Point2D{}, false
	}

	virtual, ok := geometry.LineIntersection(prev, c1.Sub(prev), after, c2.Sub(after))
	if !ok {
		return geometry.Point2D{}, false
	}

	v1 := prev.Sub(virtual)
	v2 := after.Sub(virtual)
	angle := geometry.IncludedAngle(v1, v2)
	if angle > math.Pi-degenerateAngleRad || angle < degenerateAngleRad {
		return geometry.Point2D{}, false
	}

	ideal := radius / math.Tan(angle/2)
	actualD := math.Min(ideal, clampFactor*math.Min(v1.Length(), v2.Length()))

	wIn := p.Segments[i-1].Width
	wMid := p.Segments[i].Width
	wOut := p.Segments[i+1].Width
	maxW := math.Max(wIn, math.Max(wMid, wOut))

	effective := actualD * math.Tan(angle/2)
	if effective < maxW/2-widthFeasibleTol {
		return geometry.Point2D{}, false
	}
	if actualD < materialClampAt*ideal && !forceArc {
		return geometry.Point2D{}, false
	}

	// Tangent points must land on the real legs, not on their extensions
	// beyond the original endpoints.
	if actualD > v1.Length() || actualD > v2.Length() {
		return geometry.Point2D{}, false
	}

	t1 := virtual.Add(v1.Normalize().Scale(actualD))
	t2 := virtual.Add(v2.Normalize().Scale(actualD))
	sweep := geometry.SignedAngle(virtual.Sub(prev), after.Sub(virtual)) * 180 / math.Pi

	emitLine(plan, cursor, t1, wIn)
	plan.Primitives = append(plan.Primitives, Primitive{
		Type:  PrimArc,
		Start: t1,
		End:   t2,
		Sweep: sweep,
		Width: wOut,
	})
	return t2, true
}

// emitLine appends a straight primitive, dropping zero-length output.
func emitLine(plan *Plan, from, to geometry.Point2D, width float64) {
	if from.Distance(to) < 1e-9 {
		return
	}
	plan.Primitives = append(plan.Primitives, Primitive{
		Type:  PrimLine,
		Start: from,
		End:   to,
		Width: width,
	})
}
