// Package teardrop generates teardrop fillets: for each net-connected pad
// or via, every track ending on it gets a closed polygon region whose two
// flanks are cubic-Bezier curves easing from the pad out onto the track.
// Regions are tagged by name so re-running replaces earlier output.
package teardrop

import (
	"fmt"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/geometry"
)

// RegionName tags every region this generator owns.
const RegionName = "pcbpolish-teardrop"

// Geometry constants: flank half-spacing and apex distance as multiples of
// track width times the user's size setting, Bezier control interpolation
// fractions, and flank sampling resolution.
const (
	flankSpacingFactor = 2.0
	apexDistanceFactor = 3.0
	controlNear        = 0.5
	controlFar         = 0.8
	flankSteps         = 8
)

// Report aggregates one teardrop pass.
type Report struct {
	Pads      int
	Created   int
	Removed   int
	FailedOps int
}

// Summary renders the short user-facing result line.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d teardrops on %d pads", r.Created, r.Pads)
}

// target is a pad or via reduced to what the generator needs.
type target struct {
	net      string
	center   geometry.Point2D
	diameter float64
}

// RunPass generates teardrops for all pads and vias, or only the selected
// ones when onlyIDs is non-empty. Pre-existing teardrop regions on the
// affected nets are removed first so re-running never accumulates
// duplicates.
func RunPass(ctx *app.Context, size float64, onlyIDs []string) (*Report, error) {
	if _, err := ctx.Host.CurrentBoard(); err != nil {
		return nil, fmt.Errorf("teardrop pass: %w", err)
	}

	targets, err := collectTargets(ctx.Host, onlyIDs)
	if err != nil {
		return nil, fmt.Errorf("teardrop pass: %w", err)
	}

	report := &Report{}
	affected := make(map[string]bool)
	for _, tg := range targets {
		if tg.net != "" {
			affected[tg.net] = true
		}
	}
	if err := removeExisting(ctx, affected, report); err != nil {
		ctx.Log.Warn("stale teardrop cleanup incomplete", "error", err)
	}

	tracks, err := ctx.Host.Tracks()
	if err != nil {
		return nil, fmt.Errorf("teardrop pass: %w", err)
	}
	segsByNet := make(map[string][]board.Segment)
	for _, s := range host.FlattenAll(tracks) {
		segsByNet[s.Net] = append(segsByNet[s.Net], s)
	}

	for _, tg := range targets {
		if tg.net == "" {
			continue
		}
		report.Pads++
		for _, s := range segsByNet[tg.net] {
			touch, far, ok := touchingEnd(s, tg)
			if !ok {
				continue
			}
			poly := outline(tg.center, touch, far, s.Width, size)
			if len(poly) == 0 {
				continue
			}
			if _, err := ctx.Host.CreateRegion(board.RegionRecord{
				Net:     tg.net,
				Layer:   s.Layer,
				Name:    RegionName,
				Polygon: poly,
			}); err != nil {
				ctx.Log.Warn("teardrop region create failed", "error", err)
				report.FailedOps++
				continue
			}
			report.Created++
			ctx.Pace()
		}
	}

	ctx.Log.Info("teardrop pass done", "pads", report.Pads, "created", report.Created)
	ctx.RequestRefresh()
	return report, nil
}

// collectTargets gathers pads and vias, filtered to onlyIDs when given.
// Selection may hand back IDs of any primitive kind; unknown IDs are
// simply not teardrop targets.
func collectTargets(h host.Host, onlyIDs []string) ([]target, error) {
	want := make(map[string]bool, len(onlyIDs))
	for _, id := range onlyIDs {
		want[id] = true
	}
	keep := func(id string) bool {
		return len(want) == 0 || want[id]
	}

	var targets []target
	pads, err := h.Pads()
	if err != nil {
		return nil, err
	}
	for _, p := range pads {
		if keep(p.ID) {
			targets = append(targets, target{net: p.Net, center: p.Center(), diameter: p.Diameter})
		}
	}
	vias, err := h.Vias()
	if err != nil {
		return nil, err
	}
	for _, v := range vias {
		if keep(v.ID) {
			targets = append(targets, target{net: v.Net, center: v.Center(), diameter: v.Diameter})
		}
	}
	return targets, nil
}

// removeExisting deletes earlier teardrop regions on the affected nets.
func removeExisting(ctx *app.Context, nets map[string]bool, report *Report) error {
	regions, err := ctx.Host.Regions()
	if err != nil {
		return err
	}
	var stale []string
	for _, r := range regions {
		if r.Name == RegionName && nets[r.Net] {
			stale = append(stale, r.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	report.Removed += len(stale)
	return ctx.Host.DeleteRegions(stale)
}

// touchingEnd reports which end of the segment lies on the pad's copper,
// returning that end and the far end.
func touchingEnd(s board.Segment, tg target) (touch, far geometry.Point2D, ok bool) {
	reach := tg.diameter / 2
	if s.Start.Distance(tg.center) <= reach {
		return s.Start, s.End, true
	}
	if s.End.Distance(tg.center) <= reach {
		return s.End, s.Start, true
	}
	return geometry.Point2D{}, geometry.Point2D{}, false
}

// outline builds the closed teardrop polygon: two Bezier flanks from the
// perpendicular offset points at the pad to a point out along the track,
// closed back through the pad center.
func outline(center, touch, far geometry.Point2D, trackWidth, size float64) []geometry.Point2D {
	dir := far.Sub(touch).Normalize()
	if dir.Length() == 0 {
		return nil
	}
	perp := dir.Perp()

	half := trackWidth * flankSpacingFactor * size / 2
	flank1 := center.Add(perp.Scale(half))
	flank2 := center.Sub(perp.Scale(half))
	apex := center.Add(dir.Scale(trackWidth * apexDistanceFactor * size))

	// Flank 1 to apex: control points at the 50% and 80% interpolations.
	c1 := geometry.Lerp(flank1, apex, controlNear)
	c2 := geometry.Lerp(flank1, apex, controlFar)
	side1 := geometry.SampleCubicBezier(flank1, c1, c2, apex, flankSteps)

	// Apex back to flank 2: mirrored control fractions.
	c3 := geometry.Lerp(flank2, apex, controlFar)
	c4 := geometry.Lerp(flank2, apex, controlNear)
	side2 := geometry.SampleCubicBezier(apex, c3, c4, flank2, flankSteps)

	poly := make([]geometry.Point2D, 0, len(side1)+len(side2))
	poly = append(poly, side1...)
	poly = append(poly, side2[1:]...)
	poly = append(poly, center)
	return poly
}
