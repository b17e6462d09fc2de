// Package boardfile loads and saves board fixtures as YAML. The CLI uses it
// to seed a board store from a human-editable file and to export the current
// board state for inspection.
package boardfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/geometry"
)

// Document is a whole board fixture.
type Document struct {
	Board  BoardDecl    `yaml:"board"`
	Tracks []TrackDecl  `yaml:"tracks,omitempty"`
	Arcs   []ArcDecl    `yaml:"arcs,omitempty"`
	Pads   []PadDecl    `yaml:"pads,omitempty"`
	Vias   []ViaDecl    `yaml:"vias,omitempty"`
	Config []ConfigDecl `yaml:"config,omitempty"`
}

// BoardDecl identifies the board.
type BoardDecl struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// TrackDecl is one track with two or more vertices.
type TrackDecl struct {
	Net    string      `yaml:"net"`
	Layer  string      `yaml:"layer"`
	Width  float64     `yaml:"width"`
	Points [][]float64 `yaml:"points"`
}

// ArcDecl is one arc track.
type ArcDecl struct {
	Net   string    `yaml:"net"`
	Layer string    `yaml:"layer"`
	Width float64   `yaml:"width"`
	Start []float64 `yaml:"start"`
	End   []float64 `yaml:"end"`
	Sweep float64   `yaml:"sweep"`
}

// PadDecl is one circular pad.
type PadDecl struct {
	Net      string    `yaml:"net"`
	Layer    string    `yaml:"layer"`
	At       []float64 `yaml:"at"`
	Diameter float64   `yaml:"diameter"`
}

// ViaDecl is one via.
type ViaDecl struct {
	Net      string    `yaml:"net,omitempty"`
	At       []float64 `yaml:"at"`
	Diameter float64   `yaml:"diameter"`
}

// ConfigDecl is one host config entry.
type ConfigDecl struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Seeder is the subset of host capability a store must offer for fixture
// loading. Both the in-memory board and the SQLite store satisfy it.
type Seeder interface {
	SetBoard(info board.Info) error
	CreatePolyline(net, layer string, width float64, points []geometry.Point2D) (string, error)
	CreateArc(a board.ArcRecord) (string, error)
	AddPad(p board.PadRecord) (string, error)
	AddVia(v board.ViaRecord) (string, error)
	SetConfig(key, value string) error
}

// Load reads and parses a fixture file.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse parses a fixture document and validates it.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("boardfile: parse: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural requirements before a document is applied.
func (d *Document) Validate() error {
	if d.Board.ID == "" {
		return fmt.Errorf("boardfile: board.id is required")
	}
	for i, t := range d.Tracks {
		if len(t.Points) < 2 {
			return fmt.Errorf("boardfile: tracks[%d]: need at least 2 points, got %d", i, len(t.Points))
		}
		for j, p := range t.Points {
			if len(p) != 2 {
				return fmt.Errorf("boardfile: tracks[%d].points[%d]: want [x, y]", i, j)
			}
		}
		if t.Width <= 0 {
			return fmt.Errorf("boardfile: tracks[%d]: width must be positive", i)
		}
	}
	for i, a := range d.Arcs {
		if len(a.Start) != 2 || len(a.End) != 2 {
			return fmt.Errorf("boardfile: arcs[%d]: start and end want [x, y]", i)
		}
	}
	for i, p := range d.Pads {
		if len(p.At) != 2 {
			return fmt.Errorf("boardfile: pads[%d].at: want [x, y]", i)
		}
	}
	for i, v := range d.Vias {
		if len(v.At) != 2 {
			return fmt.Errorf("boardfile: vias[%d].at: want [x, y]", i)
		}
	}
	return nil
}

// Apply seeds a board store from the document.
func (d *Document) Apply(s Seeder) error {
	if err := s.SetBoard(board.Info{ID: d.Board.ID, Name: d.Board.Name}); err != nil {
		return err
	}
	for i, t := range d.Tracks {
		pts := make([]geometry.Point2D, len(t.Points))
		for j, p := range t.Points {
			pts[j] = geometry.Point2D{X: p[0], Y: p[1]}
		}
		if _, err := s.CreatePolyline(t.Net, t.Layer, t.Width, pts); err != nil {
			return fmt.Errorf("boardfile: tracks[%d]: %w", i, err)
		}
	}
	for i, a := range d.Arcs {
		rec := board.ArcRecord{
			Net: a.Net, Layer: a.Layer, Width: a.Width,
			X1: a.Start[0], Y1: a.Start[1],
			X2: a.End[0], Y2: a.End[1],
			Sweep: a.Sweep,
		}
		if _, err := s.CreateArc(rec); err != nil {
			return fmt.Errorf("boardfile: arcs[%d]: %w", i, err)
		}
	}
	for i, p := range d.Pads {
		rec := board.PadRecord{Net: p.Net, Layer: p.Layer, X: p.At[0], Y: p.At[1], Diameter: p.Diameter}
		if _, err := s.AddPad(rec); err != nil {
			return fmt.Errorf("boardfile: pads[%d]: %w", i, err)
		}
	}
	for i, v := range d.Vias {
		rec := board.ViaRecord{Net: v.Net, X: v.At[0], Y: v.At[1], Diameter: v.Diameter}
		if _, err := s.AddVia(rec); err != nil {
			return fmt.Errorf("boardfile: vias[%d]: %w", i, err)
		}
	}
	for i, c := range d.Config {
		if err := s.SetConfig(c.Key, c.Value); err != nil {
			return fmt.Errorf("boardfile: config[%d]: %w", i, err)
		}
	}
	return nil
}

// Export captures the current board state as a fixture document. Arcs keep
// their stored sweep and width; polyline tracks export all vertices.
func Export(h host.Host) (*Document, error) {
	info, err := h.CurrentBoard()
	if err != nil {
		return nil, err
	}
	doc := &Document{Board: BoardDecl{ID: info.ID, Name: info.Name}}

	tracks, err := h.Tracks()
	if err != nil {
		return nil, err
	}
	for _, t := range tracks {
		decl := TrackDecl{Net: t.Net(), Layer: t.Layer(), Width: t.Width()}
		for _, p := range t.Points() {
			decl.Points = append(decl.Points, []float64{p.X, p.Y})
		}
		doc.Tracks = append(doc.Tracks, decl)
	}
	arcs, err := h.Arcs()
	if err != nil {
		return nil, err
	}
	for _, a := range arcs {
		doc.Arcs = append(doc.Arcs, ArcDecl{
			Net: a.Net, Layer: a.Layer, Width: a.Width,
			Start: []float64{a.X1, a.Y1},
			End:   []float64{a.X2, a.Y2},
			Sweep: a.Sweep,
		})
	}
	pads, err := h.Pads()
	if err != nil {
		return nil, err
	}
	for _, p := range pads {
		doc.Pads = append(doc.Pads, PadDecl{
			Net: p.Net, Layer: p.Layer,
			At: []float64{p.X, p.Y}, Diameter: p.Diameter,
		})
	}
	vias, err := h.Vias()
	if err != nil {
		return nil, err
	}
	for _, v := range vias {
		doc.Vias = append(doc.Vias, ViaDecl{
			Net: v.Net, At: []float64{v.X, v.Y}, Diameter: v.Diameter,
		})
	}
	return doc, nil
}

// Save writes a fixture document to path.
func Save(path string, doc *Document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("boardfile: marshal: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
