package route

import (
	"fmt"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
)

// Transaction records what one path's replacement did: the primitives just
// created and snapshots of the segments just deleted. It is the unit of
// rollback for the DRC guard and lives only for the duration of one pass.
type Transaction struct {
	CreatedLineIDs []string
	CreatedArcIDs  []string
	Backups        []board.Segment
}

// CreatedIDs returns every primitive ID the transaction created.
func (t Transaction) CreatedIDs() []string {
	ids := make([]string, 0, len(t.CreatedLineIDs)+len(t.CreatedArcIDs))
	ids = append(ids, t.CreatedLineIDs...)
	ids = append(ids, t.CreatedArcIDs...)
	return ids
}

// Report aggregates one rounding pass for user-visible summary and for the
// optional DRC guard.
type Report struct {
	Paths     int
	Rounded   int
	Merged    int
	Skipped   int
	Clamped   int
	FailedOps int

	Transactions []Transaction
}

// Summary renders the short user-facing result line.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d paths, %d corners rounded", r.Paths, r.Rounded)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	if r.Clamped > 0 {
		s += fmt.Sprintf(", %d clamped", r.Clamped)
	}
	return s
}

// RunPass rounds the corners of every path reconstructable from the given
// tracks. Per-corner failures degrade to straight joints; per-primitive
// host failures are logged and skipped. Only the absence of an active
// board aborts the pass.
func RunPass(ctx *app.Context, tracks []host.Track, radius float64, mergeShort, forceArc bool) (*Report, error) {
	info, err := ctx.Host.CurrentBoard()
	if err != nil {
		return nil, fmt.Errorf("rounding pass: %w", err)
	}

	report := &Report{}
	groups := GroupSegments(host.FlattenAll(tracks))
	for key, segs := range groups {
		for _, path := range Reconstruct(segs) {
			plan := PlanCorners(path, radius, mergeShort, forceArc)
			report.Skipped += plan.Skipped
			report.Clamped += plan.Clamped
			if !plan.HasArcs() {
				continue
			}
			report.Paths++
			report.Rounded += plan.Rounded
			report.Merged += plan.Merged

			tx := executePath(ctx, info.ID, key, path, plan, report)
			report.Transactions = append(report.Transactions, tx)
		}
	}

	ctx.Log.Info("rounding pass done",
		"board", info.ID,
		"paths", report.Paths,
		"rounded", report.Rounded,
		"skipped", report.Skipped,
		"clamped", report.Clamped)
	ctx.RequestRefresh()
	return report, nil
}

// executePath replaces one path in the host store: delete the originals
// (each owning polyline once), then create the plan's primitives in order.
func executePath(ctx *app.Context, boardID string, key GroupKey, path Path, plan Plan, report *Report) Transaction {
	tx := Transaction{Backups: path.Segments}

	if err := host.DeleteSegments(ctx.Host, path.Segments); err != nil {
		ctx.Log.Warn("delete of original segments incomplete", "error", err)
		report.FailedOps++
	}

	for _, prim := range plan.Primitives {
		switch prim.Type {
		case PrimLine:
			id, err := ctx.Host.CreateLine(board.LineRecord{
				Net:   key.Net,
				Layer: key.Layer,
				X1:    prim.Start.X,
				Y1:    prim.Start.Y,
				X2:    prim.End.X,
				Y2:    prim.End.Y,
				Width: prim.Width,
			})
			if err != nil {
				ctx.Log.Warn("line create failed", "error", err)
				report.FailedOps++
				continue
			}
			tx.CreatedLineIDs = append(tx.CreatedLineIDs, id)
		case PrimArc:
			id, err := ctx.Host.CreateArc(board.ArcRecord{
				Net:   key.Net,
				Layer: key.Layer,
				X1:    prim.Start.X,
				Y1:    prim.Start.Y,
				X2:    prim.End.X,
				Y2:    prim.End.Y,
				Sweep: prim.Sweep,
				Width: prim.Width,
			})
			if err != nil {
				ctx.Log.Warn("arc create failed", "error", err)
				report.FailedOps++
				continue
			}
			ctx.SetArcWidth(boardID, id, prim.Width)
			tx.CreatedArcIDs = append(tx.CreatedArcIDs, id)
		}
		ctx.Pace()
	}
	return tx
}
