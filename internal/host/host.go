// Package host defines the capability interfaces the core consumes from the
// board editor it runs inside: primitive stores, selection, the flat
// key-value config store, board identity, the DRC oracle and UI feedback.
// The core never talks to a host object model directly; everything crosses
// this boundary as records from internal/board.
package host

import (
	"errors"

	"pcb-polish/internal/board"
	"pcb-polish/pkg/geometry"
)

// ErrNotFound is returned when a primitive or config key does not exist.
var ErrNotFound = errors.New("host: not found")

// ErrNoBoard is returned when no board is currently open in the host.
var ErrNoBoard = errors.New("host: no active board")

// Track is the narrow view of a host track primitive. A track has at least
// two vertices; hosts that support polyline tracks return all of them in
// order. Everything the core does with host tracks goes through this
// interface, normalized once at the boundary.
type Track interface {
	ID() string
	Net() string
	Layer() string
	Width() float64
	Points() []geometry.Point2D
}

// LineStore provides query, create and delete for straight-track primitives.
type LineStore interface {
	Tracks() ([]Track, error)
	TracksByNet(net string) ([]Track, error)
	// CreateLine creates a plain two-point track and returns its new ID.
	// The record's ID and Owner fields are ignored.
	CreateLine(l board.LineRecord) (string, error)
	// DeleteLines deletes tracks by ID. Missing IDs are reported as an
	// error but do not prevent the others from being deleted.
	DeleteLines(ids []string) error
}

// ArcStore provides query, create and delete for arc-track primitives.
//
// The width reported for an arc immediately after creation is not reliable
// in every host; callers that need the authoritative width keep their own
// side table (see app.Context).
type ArcStore interface {
	Arcs() ([]board.ArcRecord, error)
	CreateArc(a board.ArcRecord) (string, error)
	DeleteArcs(ids []string) error
}

// PadStore provides read access to pads and vias.
type PadStore interface {
	Pads() ([]board.PadRecord, error)
	Vias() ([]board.ViaRecord, error)
}

// RegionStore provides query, create and delete for filled regions.
type RegionStore interface {
	Regions() ([]board.RegionRecord, error)
	CreateRegion(r board.RegionRecord) (string, error)
	DeleteRegions(ids []string) error
}

// Selection exposes the host's current selection. The returned IDs may
// reference any primitive kind; callers filter defensively.
type Selection interface {
	SelectedIDs() ([]string, error)
}

// ConfigStore is the host's flat key-value persistent config. Values are
// opaque strings; the core stores JSON blobs under keys it owns.
type ConfigStore interface {
	GetConfig(key string) (string, bool, error)
	SetConfig(key, value string) error
	AllConfig() (map[string]string, error)
	SetAllConfig(values map[string]string) error
}

// BoardInfo reports the currently open board. Returns ErrNoBoard when none
// is open; callers abort gracefully.
type BoardInfo interface {
	CurrentBoard() (board.Info, error)
}

// DRCOracle runs a design-rule check and returns the host's raw result,
// an irregularly nested structure the drc package knows how to traverse.
type DRCOracle interface {
	Check(strict, showUI, verbose bool) (any, error)
}

// Notifier is the host's UI feedback surface. All methods are observational
// except Confirm, which blocks until the user answers.
type Notifier interface {
	Toast(msg string)
	Confirm(question string) bool
	ShowLoading(msg string)
	HideLoading()
	Log(msg string)
}

// Host aggregates the capability groups a full board editor provides.
type Host interface {
	LineStore
	ArcStore
	PadStore
	RegionStore
	Selection
	ConfigStore
	BoardInfo
}
