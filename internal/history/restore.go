package history

import (
	"fmt"

	"pcb-polish/internal/board"
)

// RestoreReport counts the primitive operations a restore issued; a
// restore that changes one track touches one record, not the whole board.
type RestoreReport struct {
	Deleted int
	Created int
	Kept    int
}

// RestoreSnapshot brings the current board to the state captured in the
// snapshot with the given ID. Restoring a snapshot recorded on a different
// board requires explicit confirmation and forces a manual safety snapshot
// of the current state first; refusal aborts with no changes.
func (m *Manager) RestoreSnapshot(id string) (*RestoreReport, error) {
	snap, err := m.find(id)
	if err != nil {
		return nil, err
	}
	info, err := m.ctx.Host.CurrentBoard()
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	if snap.BoardID != info.ID {
		q := fmt.Sprintf("Snapshot %q was taken on board %q but %q is open. Restore anyway?",
			snap.Name, snap.BoardID, info.Name)
		if !m.ctx.Notify.Confirm(q) {
			return nil, ErrDeclined
		}
		if _, _, err := m.CreateSnapshot("pre-restore backup", true, false); err != nil {
			return nil, fmt.Errorf("pre-restore backup: %w", err)
		}
	}

	report, err := m.applySnapshot(info.ID, snap)
	if err != nil {
		return nil, err
	}
	m.ctx.Log.Info("snapshot restored", "id", snap.ID,
		"deleted", report.Deleted, "created", report.Created, "kept", report.Kept)
	m.ctx.RequestRefresh()
	return report, nil
}

// UndoLastOperation restores the next automatic snapshot older than the
// undo cursor, or the most recent pre-operation state when the history is
// clean. A second undo while one is in flight is a no-op.
func (m *Manager) UndoLastOperation() (*Snapshot, error) {
	if !m.ctx.TryBeginUndo() {
		return nil, ErrUndoBusy
	}
	defer m.ctx.EndUndo()

	info, err := m.ctx.Host.CurrentBoard()
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}

	target, err := m.undoTarget(info.ID)
	if err != nil {
		return nil, err
	}

	if _, err := m.applySnapshot(info.ID, target); err != nil {
		return nil, err
	}
	m.ctx.SetUndoCursor(info.ID, target.ID)
	m.ctx.Log.Info("undo restored snapshot", "id", target.ID, "name", target.Name)
	m.ctx.RequestRefresh()
	return target, nil
}

// undoTarget picks the automatic snapshot an undo should restore. With no
// cursor yet, the most recent snapshot is skipped when it is the marked
// after-state of the operation being undone. A cursor whose snapshot no
// longer exists means no undo is available.
func (m *Manager) undoTarget(boardID string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return nil, err
	}
	auto := m.boardLocked(boardID).Auto

	cursor := m.ctx.UndoCursor(boardID)
	if cursor == "" {
		idx := 0
		if len(auto) > 0 && auto[0].After {
			idx = 1
		}
		if idx >= len(auto) {
			return nil, ErrEndOfHistory
		}
		return auto[idx], nil
	}

	for i, s := range auto {
		if s.ID == cursor {
			if i+1 >= len(auto) {
				return nil, ErrEndOfHistory
			}
			return auto[i+1], nil
		}
	}
	return nil, ErrEndOfHistory
}

// applySnapshot diffs the target against the current board and issues the
// minimal create/delete set. Lines are diffed per host primitive: a
// flattened polyline's legs share an owner the host can only delete as a
// whole, so the legs are kept or replaced together. A unit whose legs all
// match is left alone; any other unit is deleted once and every one of its
// snapshot legs recreated. All deletions run before all creations to avoid
// transient ID collisions.
func (m *Manager) applySnapshot(boardID string, snap *Snapshot) (*RestoreReport, error) {
	curLines, curArcs, err := m.capture(boardID)
	if err != nil {
		return nil, err
	}
	curUnits := groupLineUnits(curLines)
	wantUnits := groupLineUnits(snap.Lines)
	arcByID := make(map[string]board.ArcRecord, len(curArcs))
	for _, a := range curArcs {
		arcByID[a.ID] = a
	}

	report := &RestoreReport{}
	var createLines []board.LineRecord
	var createArcs []board.ArcRecord
	var deleteLineIDs []string

	for key, want := range wantUnits {
		cur, ok := curUnits[key]
		switch {
		case ok && lineUnitsEqual(cur, want):
			delete(curUnits, key)
			report.Kept += len(want)
		case ok:
			// The unit diverged somewhere: replace the whole primitive so
			// its unchanged sibling legs are not lost with the owner.
			delete(curUnits, key)
			deleteLineIDs = append(deleteLineIDs, key)
			createLines = append(createLines, want...)
		default:
			createLines = append(createLines, want...)
		}
	}
	for _, want := range snap.Arcs {
		cur, ok := arcByID[want.ID]
		switch {
		case ok && board.ArcsEqual(cur, want):
			delete(arcByID, want.ID)
			report.Kept++
		case ok:
			createArcs = append(createArcs, want)
		default:
			createArcs = append(createArcs, want)
		}
	}

	// Units still present are absent from the snapshot; delete them too.
	for key := range curUnits {
		deleteLineIDs = append(deleteLineIDs, key)
	}
	if len(deleteLineIDs) > 0 {
		if err := m.ctx.Host.DeleteLines(deleteLineIDs); err != nil {
			m.ctx.Log.Warn("restore: line delete incomplete", "error", err)
		}
		report.Deleted += len(deleteLineIDs)
	}
	deleteArcIDs := make([]string, 0, len(arcByID))
	for id := range arcByID {
		deleteArcIDs = append(deleteArcIDs, id)
	}
	if len(deleteArcIDs) > 0 {
		if err := m.ctx.Host.DeleteArcs(deleteArcIDs); err != nil {
			m.ctx.Log.Warn("restore: arc delete incomplete", "error", err)
		}
		report.Deleted += len(deleteArcIDs)
	}

	for _, l := range createLines {
		if _, err := m.ctx.Host.CreateLine(l); err != nil {
			m.ctx.Log.Warn("restore: line create failed", "error", err)
			continue
		}
		report.Created++
		m.ctx.Pace()
	}
	for _, a := range createArcs {
		id, err := m.ctx.Host.CreateArc(a)
		if err != nil {
			m.ctx.Log.Warn("restore: arc create failed", "error", err)
			continue
		}
		m.ctx.SetArcWidth(boardID, id, a.Width)
		report.Created++
		m.ctx.Pace()
	}
	return report, nil
}

// groupLineUnits buckets flattened line records by the host primitive that
// owns them: the owner polyline's ID for flattened legs, the record's own
// ID otherwise.
func groupLineUnits(recs []board.LineRecord) map[string][]board.LineRecord {
	units := make(map[string][]board.LineRecord)
	for _, l := range recs {
		key := l.ID
		if l.Owner != "" {
			key = l.Owner
		}
		units[key] = append(units[key], l)
	}
	return units
}

// lineUnitsEqual reports whether two record sets describe the same
// primitive, independent of leg order.
func lineUnitsEqual(a, b []board.LineRecord) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := sortedLines(a), sortedLines(b)
	for i := range as {
		if !board.LinesEqual(as[i], bs[i]) {
			return false
		}
	}
	return true
}
