// Package route contains the path-extraction and corner-rounding engine:
// it rebuilds maximal simple polylines from the unordered segment soup of a
// (net, layer) group, plans tangent-arc replacements for their corners, and
// executes the replacement against the host store as per-path transactions.
package route

import (
	"pcb-polish/internal/board"
	"pcb-polish/pkg/geometry"
)

// GroupKey identifies one (net, layer) segment group. Paths never cross
// group boundaries.
type GroupKey struct {
	Net   string
	Layer string
}

// Path is an ordered polyline reconstructed from connected segments. Points
// has one more entry than Segments; Segments[i] connects Points[i] to
// Points[i+1] and supplies that leg's width.
type Path struct {
	Points   []geometry.Point2D
	Segments []board.Segment
}

// GroupSegments buckets segments by (net, layer).
func GroupSegments(segs []board.Segment) map[GroupKey][]board.Segment {
	groups := make(map[GroupKey][]board.Segment)
	for _, s := range segs {
		k := GroupKey{Net: s.Net, Layer: s.Layer}
		groups[k] = append(groups[k], s)
	}
	return groups
}

// Reconstruct recovers maximal simple polylines from one (net, layer)
// group. Extension stops at branch points (more than two incident segments)
// and dead ends. Every segment lands in at most one path; segments that
// never join a path of three or more points are dropped, since an isolated
// two-point segment has no corner to round.
func Reconstruct(segs []board.Segment) []Path {
	adj := buildAdjacency(segs)
	used := make([]bool, len(segs))

	var paths []Path
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		p := walkFrom(segs, adj, used, i)
		if len(p.Points) >= 3 {
			paths = append(paths, p)
		}
	}
	return paths
}

// buildAdjacency maps each quantized endpoint to the indices of its
// incident segments.
func buildAdjacency(segs []board.Segment) map[string][]int {
	adj := make(map[string][]int, len(segs)*2)
	for i, s := range segs {
		ks := board.PointKey(s.Start)
		ke := board.PointKey(s.End)
		adj[ks] = append(adj[ks], i)
		adj[ke] = append(adj[ke], i)
	}
	return adj
}

// walkFrom seeds a path with segment seed and greedily extends it from both
// ends.
func walkFrom(segs []board.Segment, adj map[string][]int, used []bool, seed int) Path {
	p := Path{
		Points:   []geometry.Point2D{segs[seed].Start, segs[seed].End},
		Segments: []board.Segment{segs[seed]},
	}

	// Extend from the tail.
	for {
		end := p.Points[len(p.Points)-1]
		next, far, ok := nextUnused(segs, adj, used, end)
		if !ok {
			break
		}
		used[next] = true
		p.Points = append(p.Points, far)
		p.Segments = append(p.Segments, segs[next])
	}

	// Extend from the head, prepending.
	for {
		start := p.Points[0]
		next, far, ok := nextUnused(segs, adj, used, start)
		if !ok {
			break
		}
		used[next] = true
		p.Points = append([]geometry.Point2D{far}, p.Points...)
		p.Segments = append([]board.Segment{segs[next]}, p.Segments...)
	}

	return p
}

// nextUnused finds the single unused segment incident to point p, and the
// endpoint on its far side. Returns false at branch points (degree > 2) and
// dead ends. At a degree-2 node at most one incident segment can still be
// unused; if several are (guarded anyway), the first in iteration order
// wins.
func nextUnused(segs []board.Segment, adj map[string][]int, used []bool, p geometry.Point2D) (int, geometry.Point2D, bool) {
	incident := adj[board.PointKey(p)]
	if len(incident) > 2 {
		return 0, geometry.Point2D{}, false
	}
	key := board.PointKey(p)
	for _, i := range incident {
		if used[i] {
			continue
		}
		if board.PointKey(segs[i].Start) == key {
			return i, segs[i].End, true
		}
		return i, segs[i].Start, true
	}
	return 0, geometry.Point2D{}, false
}
