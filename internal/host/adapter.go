package host

import (
	"fmt"

	"pcb-polish/internal/board"
)

// Flatten subdivides a track into straight segments. A two-point track
// yields one segment under its own ID; an N-vertex polyline yields N-1
// segments with synthetic IDs "<id>#<leg>" and the polyline's ID as Owner.
// Tracks with fewer than two vertices are dropped.
func Flatten(t Track) []board.Segment {
	points := t.Points()
	if len(points) < 2 {
		return nil
	}
	if len(points) == 2 {
		return []board.Segment{{
			ID:    t.ID(),
			Net:   t.Net(),
			Layer: t.Layer(),
			Start: points[0],
			End:   points[1],
			Width: t.Width(),
		}}
	}
	segs := make([]board.Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs = append(segs, board.Segment{
			ID:    fmt.Sprintf("%s#%d", t.ID(), i),
			Owner: t.ID(),
			Net:   t.Net(),
			Layer: t.Layer(),
			Start: points[i-1],
			End:   points[i],
			Width: t.Width(),
		})
	}
	return segs
}

// FlattenAll flattens a set of tracks into one segment list.
func FlattenAll(tracks []Track) []board.Segment {
	var segs []board.Segment
	for _, t := range tracks {
		segs = append(segs, Flatten(t)...)
	}
	return segs
}

// DeleteSegments deletes the host primitives behind a set of segments,
// deleting each owning polyline only once. Returns the first error, after
// attempting every deletion.
func DeleteSegments(store LineStore, segs []board.Segment) error {
	var ids []string
	seen := make(map[string]bool)
	for _, s := range segs {
		id := s.DeleteID()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return store.DeleteLines(ids)
}
