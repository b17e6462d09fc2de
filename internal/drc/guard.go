package drc

import (
	"fmt"

	"pcb-polish/internal/app"
	"pcb-polish/internal/host"
	"pcb-polish/internal/route"
)

// GuardReport summarizes one guard run.
type GuardReport struct {
	Violations int
	Reverted   int
	Failed     int
}

// Summary renders the short user-facing result line.
func (r *GuardReport) Summary() string {
	if r.Reverted == 0 {
		return "DRC clean, all rounding kept"
	}
	return fmt.Sprintf("%d transactions reverted after DRC", r.Reverted)
}

// RunGuard checks the board after a rounding pass and reverts every
// transaction whose created geometry is implicated in a violation.
// Transactions with no violating ID keep their work.
func RunGuard(ctx *app.Context, oracle host.DRCOracle, txs []route.Transaction) (*GuardReport, error) {
	result, err := oracle.Check(true, false, false)
	if err != nil {
		return nil, fmt.Errorf("drc check: %w", err)
	}
	violating := ExtractViolationIDs(result)
	report := RevertViolating(ctx, txs, violating)
	report.Violations = len(violating)
	return report, nil
}

// RevertViolating reverts every transaction that created a violating
// primitive: its created geometry is deleted and its backed-up segments
// are recreated verbatim. Strictly best-effort; a transaction that fails
// to revert is logged and counted without blocking the others.
func RevertViolating(ctx *app.Context, txs []route.Transaction, violating map[string]struct{}) *GuardReport {
	report := &GuardReport{}
	for _, tx := range txs {
		if !implicated(tx, violating) {
			continue
		}
		if revert(ctx, tx) {
			report.Reverted++
		} else {
			report.Failed++
		}
	}
	ctx.Log.Info("drc guard done", "reverted", report.Reverted, "failed", report.Failed)
	if report.Reverted > 0 {
		ctx.RequestRefresh()
	}
	return report
}

func implicated(tx route.Transaction, violating map[string]struct{}) bool {
	for _, id := range tx.CreatedIDs() {
		if _, ok := violating[id]; ok {
			return true
		}
	}
	return false
}

// revert deletes one transaction's created primitives and recreates its
// backups. Batch deletes that fail are retried per item before giving up
// on the stragglers.
func revert(ctx *app.Context, tx route.Transaction) bool {
	ok := true
	if len(tx.CreatedLineIDs) > 0 {
		if err := ctx.Host.DeleteLines(tx.CreatedLineIDs); err != nil {
			for _, id := range tx.CreatedLineIDs {
				if err := ctx.Host.DeleteLines([]string{id}); err != nil {
					ctx.Log.Warn("revert: line delete failed", "id", id, "error", err)
					ok = false
				}
			}
		}
	}
	if len(tx.CreatedArcIDs) > 0 {
		if err := ctx.Host.DeleteArcs(tx.CreatedArcIDs); err != nil {
			for _, id := range tx.CreatedArcIDs {
				if err := ctx.Host.DeleteArcs([]string{id}); err != nil {
					ctx.Log.Warn("revert: arc delete failed", "id", id, "error", err)
					ok = false
				}
			}
		}
	}

	for _, s := range tx.Backups {
		if _, err := ctx.Host.CreateLine(s.Record()); err != nil {
			ctx.Log.Warn("revert: backup recreate failed", "id", s.ID, "error", err)
			ok = false
		}
		ctx.Pace()
	}
	return ok
}
