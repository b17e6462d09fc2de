// Package history is the snapshot/undo manager: it captures complete board
// line+arc state into capped, deduplicated per-board snapshot lists, prunes
// invalidated future branches the way git does on divergent redo, and
// restores any snapshot through a minimal create/delete diff.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
)

// StoreKey is the config-store key the whole snapshot store persists under.
const StoreKey = "pcbpolish.snapshots"

// MaxSnapshots caps each per-board list; insertion evicts the oldest.
const MaxSnapshots = 20

// Errors reported to callers so commands can toast the right message.
var (
	ErrEndOfHistory = errors.New("history: no older snapshot")
	ErrUndoBusy     = errors.New("history: undo already in progress")
	ErrNotFound     = errors.New("history: snapshot not found")
	ErrDeclined     = errors.New("history: cross-board restore declined")
)

// Snapshot is one captured board state. Immutable once created except for
// deletion.
type Snapshot struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp int64              `json:"timestamp"`
	BoardID   string             `json:"boardId"`
	Manual    bool               `json:"manual"`
	After     bool               `json:"after,omitempty"`
	Lines     []board.LineRecord `json:"lines"`
	Arcs      []board.ArcRecord  `json:"arcs"`
}

// boardHistory holds one board's snapshot lists, most recent first.
type boardHistory struct {
	Manual []*Snapshot `json:"manual"`
	Auto   []*Snapshot `json:"auto"`
}

// Manager owns the snapshot store. All state shared across invocations
// (undo cursor, reentrancy lock) lives in the app context; the manager
// itself only caches the persisted store.
type Manager struct {
	ctx *app.Context

	mu     sync.Mutex
	store  map[string]*boardHistory
	loaded bool

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a manager bound to the application context.
func NewManager(ctx *app.Context) *Manager {
	return &Manager{ctx: ctx, now: time.Now}
}

// CreateSnapshot captures the current board into the manual or automatic
// list. A snapshot whose content matches the current front of the target
// list is not inserted; the false return reports the no-op. Creating a
// snapshot while an undo cursor is set prunes the invalidated future
// branch from the automatic list first.
func (m *Manager) CreateSnapshot(name string, manual, after bool) (*Snapshot, bool, error) {
	info, err := m.ctx.Host.CurrentBoard()
	if err != nil {
		return nil, false, fmt.Errorf("create snapshot: %w", err)
	}

	lines, arcs, err := m.capture(info.ID)
	if err != nil {
		return nil, false, fmt.Errorf("create snapshot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return nil, false, err
	}
	bh := m.boardLocked(info.ID)

	truncated := false
	if cursor := m.ctx.UndoCursor(info.ID); cursor != "" {
		before := len(bh.Auto)
		m.truncateBranchLocked(bh, cursor)
		m.ctx.SetUndoCursor(info.ID, "")
		truncated = len(bh.Auto) != before
	}

	snap := &Snapshot{
		Name:      name,
		Timestamp: m.now().UnixMilli(),
		BoardID:   info.ID,
		Manual:    manual,
		After:     after,
		Lines:     lines,
		Arcs:      arcs,
	}
	snap.ID = m.mintIDLocked(bh, snap.Timestamp)

	list := &bh.Auto
	if manual {
		list = &bh.Manual
	}
	if len(*list) > 0 && ContentEqual(snap, (*list)[0]) {
		// A pruned branch must reach the store even when the snapshot
		// itself dedups away.
		if truncated {
			if err := m.saveLocked(); err != nil {
				return nil, false, err
			}
		}
		m.ctx.Log.Debug("snapshot unchanged, skipped", "board", info.ID, "name", name)
		return (*list)[0], false, nil
	}

	*list = append([]*Snapshot{snap}, *list...)
	if len(*list) > MaxSnapshots {
		*list = (*list)[:MaxSnapshots]
	}

	if err := m.saveLocked(); err != nil {
		return nil, false, err
	}
	m.ctx.Log.Info("snapshot created", "board", info.ID, "id", snap.ID,
		"name", name, "manual", manual, "lines", len(lines), "arcs", len(arcs))
	return snap, true, nil
}

// truncateBranchLocked drops every automatic snapshot strictly newer than
// the cursor's snapshot: they are a future branch no longer reachable once
// a new forward operation happens.
func (m *Manager) truncateBranchLocked(bh *boardHistory, cursorID string) {
	for i, s := range bh.Auto {
		if s.ID == cursorID {
			bh.Auto = bh.Auto[i:]
			return
		}
	}
	// Stale cursor: the target is gone, nothing provably newer remains.
}

// List returns a board's snapshots, manual then automatic, most recent
// first within each list.
func (m *Manager) List(boardID string) ([]*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return nil, err
	}
	bh := m.boardLocked(boardID)
	out := make([]*Snapshot, 0, len(bh.Manual)+len(bh.Auto))
	out = append(out, bh.Manual...)
	out = append(out, bh.Auto...)
	return out, nil
}

// DeleteSnapshot removes a snapshot by ID from whichever list holds it. A
// dangling undo cursor left behind is tolerated; the next undo reports end
// of history.
func (m *Manager) DeleteSnapshot(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return err
	}
	for _, bh := range m.store {
		for _, list := range []*[]*Snapshot{&bh.Manual, &bh.Auto} {
			for i, s := range *list {
				if s.ID == id {
					*list = append((*list)[:i], (*list)[i+1:]...)
					return m.saveLocked()
				}
			}
		}
	}
	return ErrNotFound
}

// ClearSnapshots drops all snapshots for one board.
func (m *Manager) ClearSnapshots(boardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return err
	}
	delete(m.store, boardID)
	m.ctx.SetUndoCursor(boardID, "")
	return m.saveLocked()
}

// find locates a snapshot by ID across every board and both lists.
func (m *Manager) find(id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return nil, err
	}
	for _, bh := range m.store {
		for _, list := range [][]*Snapshot{bh.Manual, bh.Auto} {
			for _, s := range list {
				if s.ID == id {
					return s, nil
				}
			}
		}
	}
	return nil, ErrNotFound
}

// ContentEqual reports whether two snapshots capture the same board state,
// independent of record order.
func ContentEqual(a, b *Snapshot) bool {
	if len(a.Lines) != len(b.Lines) || len(a.Arcs) != len(b.Arcs) {
		return false
	}
	al := sortedLines(a.Lines)
	bl := sortedLines(b.Lines)
	for i := range al {
		if !board.LinesEqual(al[i], bl[i]) {
			return false
		}
	}
	aa := sortedArcs(a.Arcs)
	ba := sortedArcs(b.Arcs)
	for i := range aa {
		if !board.ArcsEqual(aa[i], ba[i]) {
			return false
		}
	}
	return true
}

func sortedLines(in []board.LineRecord) []board.LineRecord {
	out := append([]board.LineRecord(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedArcs(in []board.ArcRecord) []board.ArcRecord {
	out := append([]board.ArcRecord(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// capture flattens the board's current tracks and arcs into records. Arc
// widths prefer the creation-time side table over the host's own query,
// which is unreliable right after an arc is created.
func (m *Manager) capture(boardID string) ([]board.LineRecord, []board.ArcRecord, error) {
	tracks, err := m.ctx.Host.Tracks()
	if err != nil {
		return nil, nil, err
	}
	var lines []board.LineRecord
	for _, s := range host.FlattenAll(tracks) {
		lines = append(lines, s.Record())
	}

	arcs, err := m.ctx.Host.Arcs()
	if err != nil {
		return nil, nil, err
	}
	out := make([]board.ArcRecord, len(arcs))
	for i, a := range arcs {
		if w, ok := m.ctx.ArcWidth(boardID, a.ID); ok {
			a.Width = w
		}
		out[i] = a
	}
	return lines, out, nil
}

// mintIDLocked derives a unique-within-board snapshot ID from the capture
// timestamp, suffixing on collision.
func (m *Manager) mintIDLocked(bh *boardHistory, ts int64) string {
	id := strconv.FormatInt(ts, 10)
	taken := func(id string) bool {
		for _, list := range [][]*Snapshot{bh.Manual, bh.Auto} {
			for _, s := range list {
				if s.ID == id {
					return true
				}
			}
		}
		return false
	}
	candidate := id
	for n := 1; taken(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

func (m *Manager) boardLocked(boardID string) *boardHistory {
	bh := m.store[boardID]
	if bh == nil {
		bh = &boardHistory{}
		m.store[boardID] = bh
	}
	return bh
}

func (m *Manager) loadLocked() error {
	if m.loaded {
		return nil
	}
	m.store = make(map[string]*boardHistory)
	raw, ok, err := m.ctx.Host.GetConfig(StoreKey)
	if err != nil {
		return fmt.Errorf("load snapshot store: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.store); err != nil {
			return fmt.Errorf("decode snapshot store: %w", err)
		}
	}
	m.loaded = true
	return nil
}

func (m *Manager) saveLocked() error {
	blob, err := json.Marshal(m.store)
	if err != nil {
		return fmt.Errorf("encode snapshot store: %w", err)
	}
	if err := m.ctx.Host.SetConfig(StoreKey, string(blob)); err != nil {
		return fmt.Errorf("save snapshot store: %w", err)
	}
	return nil
}
