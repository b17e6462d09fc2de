// Package sqlboard is a SQLite-backed implementation of the host capability
// interfaces. The CLI uses it to run passes against a board file on disk so
// results survive between invocations.
package sqlboard

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/pkg/geometry"
)

// Schema is the board database schema. Tracks store their vertex list as a
// JSON array so polyline tracks round-trip without a join table.
const Schema = `
CREATE TABLE IF NOT EXISTS board_info (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lines (
	id     TEXT PRIMARY KEY,
	net    TEXT NOT NULL,
	layer  TEXT NOT NULL,
	width  REAL NOT NULL,
	points TEXT NOT NULL,
	seq    INTEGER
);

CREATE TABLE IF NOT EXISTS arcs (
	id    TEXT PRIMARY KEY,
	net   TEXT NOT NULL,
	layer TEXT NOT NULL,
	x1    REAL NOT NULL,
	y1    REAL NOT NULL,
	x2    REAL NOT NULL,
	y2    REAL NOT NULL,
	sweep REAL NOT NULL,
	width REAL NOT NULL,
	seq   INTEGER
);

CREATE TABLE IF NOT EXISTS pads (
	id       TEXT PRIMARY KEY,
	net      TEXT NOT NULL,
	layer    TEXT NOT NULL,
	x        REAL NOT NULL,
	y        REAL NOT NULL,
	diameter REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS vias (
	id       TEXT PRIMARY KEY,
	net      TEXT NOT NULL,
	x        REAL NOT NULL,
	y        REAL NOT NULL,
	diameter REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS regions (
	id      TEXT PRIMARY KEY,
	net     TEXT NOT NULL,
	layer   TEXT NOT NULL,
	name    TEXT NOT NULL,
	polygon TEXT NOT NULL,
	seq     INTEGER
);

CREATE TABLE IF NOT EXISTS user_config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS selection (
	id TEXT PRIMARY KEY
);
`

// Store is a board database handle implementing host.Host.
type Store struct {
	db  *sql.DB
	seq int64
}

// Open opens (or creates) the board database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlboard: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlboard: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlboard: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlboard: schema: %w", err)
	}
	s := &Store{db: db}
	// Continue the sequence counter past anything already stored.
	row := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM (
		SELECT seq FROM lines UNION ALL SELECT seq FROM arcs UNION ALL SELECT seq FROM regions)`)
	if err := row.Scan(&s.seq); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlboard: seq: %w", err)
	}
	return s, nil
}

// OpenMemory opens a fresh in-memory board database for tests.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetBoard stores the board identity, replacing any previous one.
func (s *Store) SetBoard(info board.Info) error {
	if _, err := s.db.Exec(`DELETE FROM board_info`); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO board_info (id, name) VALUES (?, ?)`, info.ID, info.Name)
	return err
}

// CurrentBoard returns the stored board identity or ErrNoBoard.
func (s *Store) CurrentBoard() (board.Info, error) {
	var info board.Info
	err := s.db.QueryRow(`SELECT id, name FROM board_info LIMIT 1`).Scan(&info.ID, &info.Name)
	if err == sql.ErrNoRows {
		return board.Info{}, host.ErrNoBoard
	}
	if err != nil {
		return board.Info{}, err
	}
	return info, nil
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
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

func scanTracks(rows *sql.Rows) ([]host.Track, error) {
	defer rows.Close()
	var out []host.Track
	for rows.Next() {
		var t track
		var raw string
		if err := rows.Scan(&t.id, &t.net, &t.layer, &t.width, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &t.points); err != nil {
			return nil, fmt.Errorf("sqlboard: track %s points: %w", t.id, err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Tracks returns all straight-track primitives in creation order.
func (s *Store) Tracks() ([]host.Track, error) {
	rows, err := s.db.Query(`SELECT id, net, layer, width, points FROM lines ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return scanTracks(rows)
}

// TracksByNet returns the tracks on one net in creation order.
func (s *Store) TracksByNet(net string) ([]host.Track, error) {
	rows, err := s.db.Query(`SELECT id, net, layer, width, points FROM lines WHERE net = ? ORDER BY seq`, net)
	if err != nil {
		return nil, err
	}
	return scanTracks(rows)
}

// CreateLine creates a two-point track and returns its minted ID.
func (s *Store) CreateLine(l board.LineRecord) (string, error) {
	return s.insertTrack(l.Net, l.Layer, l.Width, []geometry.Point2D{l.Start(), l.End()})
}

// CreatePolyline seeds a multi-vertex track; fixture loading uses this.
func (s *Store) CreatePolyline(net, layer string, width float64, points []geometry.Point2D) (string, error) {
	return s.insertTrack(net, layer, width, points)
}

func (s *Store) insertTrack(net, layer string, width float64, points []geometry.Point2D) (string, error) {
	raw, err := json.Marshal(points)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(`INSERT INTO lines (id, net, layer, width, points, seq) VALUES (?, ?, ?, ?, ?, ?)`,
		id, net, layer, width, string(raw), s.nextSeq())
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteLines deletes tracks by ID. Unknown IDs are reported after the rest
// of the batch has been deleted.
func (s *Store) DeleteLines(ids []string) error {
	return s.deleteByID("lines", ids)
}

// Arcs returns all arc primitives in creation order.
func (s *Store) Arcs() ([]board.ArcRecord, error) {
	rows, err := s.db.Query(`SELECT id, net, layer, x1, y1, x2, y2, sweep, width FROM arcs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.ArcRecord
	for rows.Next() {
		var a board.ArcRecord
		if err := rows.Scan(&a.ID, &a.Net, &a.Layer, &a.X1, &a.Y1, &a.X2, &a.Y2, &a.Sweep, &a.Width); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateArc creates an arc primitive and returns its minted ID.
func (s *Store) CreateArc(a board.ArcRecord) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO arcs (id, net, layer, x1, y1, x2, y2, sweep, width, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.Net, a.Layer, a.X1, a.Y1, a.X2, a.Y2, a.Sweep, a.Width, s.nextSeq())
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteArcs deletes arcs by ID.
func (s *Store) DeleteArcs(ids []string) error {
	return s.deleteByID("arcs", ids)
}

// Pads returns all pads.
func (s *Store) Pads() ([]board.PadRecord, error) {
	rows, err := s.db.Query(`SELECT id, net, layer, x, y, diameter FROM pads ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.PadRecord
	for rows.Next() {
		var p board.PadRecord
		if err := rows.Scan(&p.ID, &p.Net, &p.Layer, &p.X, &p.Y, &p.Diameter); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddPad seeds a pad primitive.
func (s *Store) AddPad(p board.PadRecord) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO pads (id, net, layer, x, y, diameter) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Net, p.Layer, p.X, p.Y, p.Diameter)
	return p.ID, err
}

// Vias returns all vias.
func (s *Store) Vias() ([]board.ViaRecord, error) {
	rows, err := s.db.Query(`SELECT id, net, x, y, diameter FROM vias ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.ViaRecord
	for rows.Next() {
		var v board.ViaRecord
		if err := rows.Scan(&v.ID, &v.Net, &v.X, &v.Y, &v.Diameter); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AddVia seeds a via primitive.
func (s *Store) AddVia(v board.ViaRecord) (string, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO vias (id, net, x, y, diameter) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Net, v.X, v.Y, v.Diameter)
	return v.ID, err
}

// Regions returns all filled regions in creation order.
func (s *Store) Regions() ([]board.RegionRecord, error) {
	rows, err := s.db.Query(`SELECT id, net, layer, name, polygon FROM regions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.RegionRecord
	for rows.Next() {
		var r board.RegionRecord
		var raw string
		if err := rows.Scan(&r.ID, &r.Net, &r.Layer, &r.Name, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Polygon); err != nil {
			return nil, fmt.Errorf("sqlboard: region %s polygon: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateRegion creates a filled region and returns its minted ID.
func (s *Store) CreateRegion(r board.RegionRecord) (string, error) {
	raw, err := json.Marshal(r.Polygon)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(`INSERT INTO regions (id, net, layer, name, polygon, seq) VALUES (?, ?, ?, ?, ?, ?)`,
		id, r.Net, r.Layer, r.Name, string(raw), s.nextSeq())
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteRegions deletes regions by ID.
func (s *Store) DeleteRegions(ids []string) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM regions WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

// SelectedIDs returns the stored selection.
func (s *Store) SelectedIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM selection ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Select replaces the stored selection.
func (s *Store) Select(ids ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM selection`); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec(`INSERT INTO selection (id) VALUES (?)`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetConfig returns one config value.
func (s *Store) GetConfig(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM user_config WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetConfig stores one config value.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO user_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// AllConfig returns the whole config map.
func (s *Store) AllConfig() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM user_config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// SetAllConfig replaces the whole config map in one transaction.
func (s *Store) SetAllConfig(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM user_config`); err != nil {
		return err
	}
	for k, v := range values {
		if _, err := tx.Exec(`INSERT INTO user_config (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// deleteByID deletes rows from table in one transaction, then reports
// missing IDs without undoing the deletes that succeeded.
func (s *Store) deleteByID(table string, ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	missing := 0
	for _, id := range ids {
		res, err := tx.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			missing++
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if missing > 0 {
		return host.ErrNotFound
	}
	return nil
}
