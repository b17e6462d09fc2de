// Package taper generates smooth width transitions: where two tracks of
// the same net and layer meet end-to-end with different widths, it lays a
// chain of short segments whose widths ease from the wide track to the
// narrow one. Junction records persisted in the host config make re-runs
// replace their own output instead of stacking new chains.
package taper

import (
	"encoding/json"
	"fmt"
	"math"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/geometry"
)

// RecordsKey is the config-store key the junction records live under.
const RecordsKey = "pcbpolish.transitions"

// Tuning constants. The collinearity bound admits junctions within roughly
// 30 degrees of straight; the cap keeps a taper inside the track it tapers
// into. Empirical product constants.
const (
	coincidenceTol = 0.01
	widthEps       = 0.001
	collinearCos   = 0.87
	lengthCapRatio = 0.9

	segmentStep      = 2.0
	minSegments      = 5
	shortTaperLength = 5.0
	shortTaperMaxSeg = 6
)

// Report aggregates one transition pass.
type Report struct {
	Junctions int
	Created   int
	Replaced  int
	FailedOps int
}

// Summary renders the short user-facing result line.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d junctions, %d segments created", r.Junctions, r.Created)
}

// records maps boardID -> junction point key -> created primitive IDs.
type records map[string]map[string][]string

// RunPass finds width-mismatched junctions among the given tracks and
// rebuilds their transitions. At most one transition ever occupies a
// junction: any previously recorded chain at the same quantized point is
// deleted first.
func RunPass(ctx *app.Context, tracks []host.Track, ratio float64, maxSegments int) (*Report, error) {
	info, err := ctx.Host.CurrentBoard()
	if err != nil {
		return nil, fmt.Errorf("transition pass: %w", err)
	}

	recs, err := loadRecords(ctx.Host)
	if err != nil {
		ctx.Log.Warn("junction records unreadable, starting fresh", "error", err)
		recs = records{}
	}
	boardRecs := recs[info.ID]
	if boardRecs == nil {
		boardRecs = make(map[string][]string)
		recs[info.ID] = boardRecs
	}

	// Segments created by earlier transition passes are output, not
	// candidates; processing them would cascade tapers onto tapers.
	ours := make(map[string]bool)
	for _, ids := range boardRecs {
		for _, id := range ids {
			ours[id] = true
		}
	}
	var segs []board.Segment
	for _, s := range host.FlattenAll(tracks) {
		if !ours[s.DeleteID()] {
			segs = append(segs, s)
		}
	}

	report := &Report{}
	for _, group := range groupByNetLayer(segs) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if math.Abs(a.Width-b.Width) <= widthEps {
					continue
				}
				for _, junction := range coincidentJunctions(a, b) {
					report.Junctions++
					buildTransition(ctx, boardRecs, junction, a, b, ratio, maxSegments, report)
				}
			}
		}
	}

	if err := saveRecords(ctx.Host, recs); err != nil {
		ctx.Log.Warn("junction records not saved", "error", err)
	}

	ctx.Log.Info("transition pass done", "board", info.ID,
		"junctions", report.Junctions, "created", report.Created)
	ctx.RequestRefresh()
	return report, nil
}

func groupByNetLayer(segs []board.Segment) map[[2]string][]board.Segment {
	groups := make(map[[2]string][]board.Segment)
	for _, s := range segs {
		k := [2]string{s.Net, s.Layer}
		groups[k] = append(groups[k], s)
	}
	return groups
}

// coincidentJunctions tests all four endpoint pairings of two segments for
// coincidence, then requires the tracks to be near-collinear through the
// shared point; a sharp V junction cannot take a smooth taper.
func coincidentJunctions(a, b board.Segment) []geometry.Point2D {
	type pairing struct {
		pa, farA, pb, farB geometry.Point2D
	}
	pairings := []pairing{
		{a.Start, a.End, b.Start, b.End},
		{a.Start, a.End, b.End, b.Start},
		{a.End, a.Start, b.Start, b.End},
		{a.End, a.Start, b.End, b.Start},
	}

	var out []geometry.Point2D
	for _, p := range pairings {
		if p.pa.Distance(p.pb) > coincidenceTol {
			continue
		}
		dirA := p.farA.Sub(p.pa).Normalize()
		dirB := p.farB.Sub(p.pb).Normalize()
		if math.Abs(dirA.Dot(dirB)) < collinearCos {
			continue
		}
		out = append(out, p.pa)
	}
	return out
}

// buildTransition replaces whatever transition sits at the junction with a
// freshly eased chain running from the junction into the narrow track.
func buildTransition(ctx *app.Context, boardRecs map[string][]string, junction geometry.Point2D, a, b board.Segment, ratio float64, maxSegments int, report *Report) {
	key := board.PointKey(junction)
	if old := boardRecs[key]; len(old) > 0 {
		if err := ctx.Host.DeleteLines(old); err != nil {
			ctx.Log.Warn("stale transition delete incomplete", "point", key, "error", err)
		}
		delete(boardRecs, key)
		report.Replaced++
	}

	narrow, wide := a, b
	if narrow.Width > wide.Width {
		narrow, wide = wide, narrow
	}

	// The taper always runs from the junction into the narrow track, so
	// the wide track keeps its full width right up to the joint.
	narrowFar := narrow.End
	if narrow.End.Distance(junction) < narrow.Start.Distance(junction) {
		narrowFar = narrow.Start
	}
	dir := narrowFar.Sub(junction).Normalize()
	if dir.Length() == 0 {
		return
	}

	diff := wide.Width - narrow.Width
	length := math.Min(diff*ratio, lengthCapRatio*narrow.Length())
	if length <= 0 {
		return
	}

	n := minSegments
	if byLen := int(math.Ceil(length / segmentStep)); byLen > n {
		n = byLen
	}
	if byDiff := int(math.Ceil(diff / segmentStep)); byDiff > n {
		n = byDiff
	}
	if maxSegments > 0 && n > maxSegments {
		n = maxSegments
	}
	if length < shortTaperLength && n > shortTaperMaxSeg {
		n = shortTaperMaxSeg
	}

	var created []string
	for k := 1; k <= n; k++ {
		from := junction.Add(dir.Scale(length * float64(k-1) / float64(n)))
		to := junction.Add(dir.Scale(length * float64(k) / float64(n)))
		// Width evaluated at the sub-segment's end parameter so the last
		// piece lands exactly on the narrow width with no visible step.
		w := wide.Width + (narrow.Width-wide.Width)*geometry.Smootherstep(float64(k)/float64(n))

		id, err := ctx.Host.CreateLine(board.LineRecord{
			Net:   narrow.Net,
			Layer: narrow.Layer,
			X1:    from.X,
			Y1:    from.Y,
			X2:    to.X,
			Y2:    to.Y,
			Width: w,
		})
		if err != nil {
			ctx.Log.Warn("transition segment create failed", "error", err)
			report.FailedOps++
			continue
		}
		created = append(created, id)
		report.Created++
		ctx.Pace()
	}

	if len(created) > 0 {
		boardRecs[key] = created
	}
}

func loadRecords(store host.ConfigStore) (records, error) {
	raw, ok, err := store.GetConfig(RecordsKey)
	if err != nil {
		return nil, err
	}
	recs := records{}
	if !ok || raw == "" {
		return recs, nil
	}
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func saveRecords(store host.ConfigStore, recs records) error {
	blob, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return store.SetConfig(RecordsKey, string(blob))
}
