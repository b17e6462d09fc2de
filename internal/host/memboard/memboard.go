// Package memboard is an in-memory reference implementation of the host
// capability interfaces, used by the CLI and as the test double for
// pass-level tests. Iteration order is insertion order so passes behave
// deterministically.
package memboard

import (
	"sync"

	"github.com/google/uuid"

	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/geometry"
)

// Board is an in-memory board store implementing host.Host.
type Board struct {
	mu       sync.RWMutex
	info     board.Info
	lines    []*track
	arcs     []board.ArcRecord
	pads     []board.PadRecord
	vias     []board.ViaRecord
	regions  []board.RegionRecord
	config   map[string]string
	selected []string
}

type track struct {
	id     string
	net    string
	layer  string
	width  float64
	points []geometry.Point2D
}

func (t *track) ID() string                 { return t.id }
func (t *track) Net() string                { return t.net }
func (t *track) Layer() string              { return t.layer }
func (t *track) Width() float64             { return t.width }
func (t *track) Points() []geometry.Point2D { return t.points }

// New creates an empty in-memory board with the given identity.
func New(info board.Info) *Board {
	return &Board{
		info:   info,
		config: make(map[string]string),
	}
}

// SetBoard replaces the board identity.
func (b *Board) SetBoard(info board.Info) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = info
	return nil
}

// CurrentBoard returns the board identity.
func (b *Board) CurrentBoard() (board.Info, error) {
	if b.info.ID == "" {
		return board.Info{}, host.ErrNoBoard
	}
	return b.info, nil
}

// Tracks returns all straight-track primitives in insertion order.
func (b *Board) Tracks() ([]host.Track, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]host.Track, len(b.lines))
	for i, l := range b.lines {
		out[i] = l
	}
	return out, nil
}

// TracksByNet returns the tracks on one net in insertion order.
func (b *Board) TracksByNet(net string) ([]host.Track, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []host.Track
	for _, l := range b.lines {
		if l.net == net {
			out = append(out, l)
		}
	}
	return out, nil
}

// CreateLine creates a two-point track and returns its minted ID.
func (b *Board) CreateLine(l board.LineRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.lines = append(b.lines, &track{
		id:    id,
		net:   l.Net,
		layer: l.Layer,
		width: l.Width,
		points: []geometry.Point2D{
			{X: l.X1, Y: l.Y1},
			{X: l.X2, Y: l.Y2},
		},
	})
	return id, nil
}

// CreatePolyline seeds a multi-vertex track. Only fixtures use this; the
// core itself creates plain two-point lines.
func (b *Board) CreatePolyline(net, layer string, width float64, points []geometry.Point2D) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.lines = append(b.lines, &track{
		id:     id,
		net:    net,
		layer:  layer,
		width:  width,
		points: append([]geometry.Point2D(nil), points...),
	})
	return id, nil
}

// DeleteLines deletes tracks by ID. Unknown IDs are reported but do not
// block the rest of the batch.
func (b *Board) DeleteLines(ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	missing := 0
	for _, id := range ids {
		found := false
		for i, l := range b.lines {
			if l.id == id {
				b.lines = append(b.lines[:i], b.lines[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	if missing > 0 {
		return host.ErrNotFound
	}
	return nil
}

// Arcs returns all arc primitives in insertion order.
func (b *Board) Arcs() ([]board.ArcRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]board.ArcRecord(nil), b.arcs...), nil
}

// CreateArc creates an arc primitive and returns its minted ID.
func (b *Board) CreateArc(a board.ArcRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a.ID = uuid.NewString()
	b.arcs = append(b.arcs, a)
	return a.ID, nil
}

// DeleteArcs deletes arcs by ID.
func (b *Board) DeleteArcs(ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	missing := 0
	for _, id := range ids {
		found := false
		for i, a := range b.arcs {
			if a.ID == id {
				b.arcs = append(b.arcs[:i], b.arcs[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	if missing > 0 {
		return host.ErrNotFound
	}
	return nil
}

// Pads returns all pads.
func (b *Board) Pads() ([]board.PadRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]board.PadRecord(nil), b.pads...), nil
}

// AddPad seeds a pad primitive.
func (b *Board) AddPad(p board.PadRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	b.pads = append(b.pads, p)
	return p.ID, nil
}

// Vias returns all vias.
func (b *Board) Vias() ([]board.ViaRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]board.ViaRecord(nil), b.vias...), nil
}

// AddVia seeds a via primitive.
func (b *Board) AddVia(v board.ViaRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	b.vias = append(b.vias, v)
	return v.ID, nil
}

// Regions returns all filled regions.
func (b *Board) Regions() ([]board.RegionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]board.RegionRecord(nil), b.regions...), nil
}

// CreateRegion creates a filled region and returns its minted ID.
func (b *Board) CreateRegion(r board.RegionRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = uuid.NewString()
	b.regions = append(b.regions, r)
	return r.ID, nil
}

// DeleteRegions deletes regions by ID.
func (b *Board) DeleteRegions(ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		for i, r := range b.regions {
			if r.ID == id {
				b.regions = append(b.regions[:i], b.regions[i+1:]...)
				break
			}
		}
	}
	return nil
}

// SelectedIDs returns the current selection.
func (b *Board) SelectedIDs() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.selected...), nil
}

// Select replaces the current selection.
func (b *Board) Select(ids ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = append([]string(nil), ids...)
}

// GetConfig returns one config value.
func (b *Board) GetConfig(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.config[key]
	return v, ok, nil
}

// SetConfig stores one config value.
func (b *Board) SetConfig(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config[key] = value
	return nil
}

// AllConfig returns a copy of the whole config map.
func (b *Board) AllConfig() (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.config))
	for k, v := range b.config {
		out[k] = v
	}
	return out, nil
}

// SetAllConfig replaces the whole config map.
func (b *Board) SetAllConfig(values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config = make(map[string]string, len(values))
	for k, v := range values {
		b.config[k] = v
	}
	return nil
}
