package drc

import (
	"testing"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host/memboard"
	"pcb-polish/internal/route"
	"pcb-polish/pkg/geometry"
)

// fakeOracle reports violations against a fixed set of IDs.
type fakeOracle struct {
	ids []string
}

func (f fakeOracle) Check(strict, showUI, verbose bool) (any, error) {
	var objs []any
	for _, id := range f.ids {
		objs = append(objs, id)
	}
	return map[string]any{"issues": []any{map[string]any{"objs": objs}}}, nil
}

func roundedBoard(t *testing.T) (*app.Context, *memboard.Board, *route.Report) {
	t.Helper()
	b := memboard.New(board.Info{ID: "b1"})
	ctx := app.New(b, memboard.NewNotifier())
	for _, pts := range [][]geometry.Point2D{
		{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		{{X: 50, Y: 0}, {X: 60, Y: 0}, {X: 60, Y: 10}},
	} {
		if _, err := b.CreatePolyline("SIG", "top", 3, pts); err != nil {
			t.Fatal(err)
		}
	}
	tracks, _ := b.Tracks()
	report, err := route.RunPass(ctx, tracks, 2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(report.Transactions))
	}
	return ctx, b, report
}

func TestGuardRevertsOnlyViolatingTransactions(t *testing.T) {
	ctx, b, report := roundedBoard(t)

	victim := report.Transactions[0]
	kept := report.Transactions[1]

	guard, err := RunGuard(ctx, fakeOracle{ids: []string{victim.CreatedArcIDs[0]}}, report.Transactions)
	if err != nil {
		t.Fatal(err)
	}
	if guard.Reverted != 1 || guard.Failed != 0 {
		t.Errorf("guard = %+v, want exactly 1 reverted", guard)
	}

	// The victim's arc is gone and its original legs are back; the clean
	// transaction's arc survives.
	arcs, _ := b.Arcs()
	if len(arcs) != 1 {
		t.Fatalf("expected 1 surviving arc, got %d", len(arcs))
	}
	if arcs[0].ID != kept.CreatedArcIDs[0] {
		t.Error("wrong arc survived the revert")
	}

	tracks, _ := b.Tracks()
	// Kept transaction: 2 lines. Reverted transaction: its 2 backup legs
	// recreated as plain lines.
	if len(tracks) != 4 {
		t.Errorf("expected 4 tracks after revert, got %d", len(tracks))
	}
	foundOriginalLeg := false
	for _, tr := range tracks {
		pts := tr.Points()
		if geometry.PointsEqualWithin(pts[0], geometry.Point2D{X: 0, Y: 0}, 1e-9) &&
			geometry.PointsEqualWithin(pts[1], geometry.Point2D{X: 10, Y: 0}, 1e-9) {
			foundOriginalLeg = true
		}
	}
	if !foundOriginalLeg {
		t.Error("backed-up original leg was not recreated")
	}
}

func TestGuardCleanResultKeepsEverything(t *testing.T) {
	ctx, b, report := roundedBoard(t)
	guard, err := RunGuard(ctx, fakeOracle{}, report.Transactions)
	if err != nil {
		t.Fatal(err)
	}
	if guard.Reverted != 0 {
		t.Errorf("clean DRC reverted %d transactions", guard.Reverted)
	}
	arcs, _ := b.Arcs()
	if len(arcs) != 2 {
		t.Errorf("expected both arcs kept, got %d", len(arcs))
	}
}
