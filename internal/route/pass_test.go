package route

import (
	"testing"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/internal/host/memboard"
	"pcb-polish/pkg/geometry"
)

func newTestContext(t *testing.T) (*app.Context, *memboard.Board) {
	t.Helper()
	b := memboard.New(board.Info{ID: "b1", Name: "test board"})
	return app.New(b, memboard.NewNotifier()), b
}

func TestRunPassReplacesPolyline(t *testing.T) {
	ctx, b := newTestContext(t)
	polyID, err := b.CreatePolyline("SIG", "top", 3, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	tracks, _ := b.Tracks()
	report, err := RunPass(ctx, tracks, 2, false, false)
	if err != nil {
		t.Fatal(err)
	}

	if report.Paths != 1 || report.Rounded != 1 {
		t.Errorf("report = %+v", report)
	}

	// The owning polyline is gone; two straight legs and one arc replace it.
	after, _ := b.Tracks()
	for _, tr := range after {
		if tr.ID() == polyID {
			t.Error("original polyline still present")
		}
	}
	if len(after) != 2 {
		t.Errorf("expected 2 replacement lines, got %d", len(after))
	}
	arcs, _ := b.Arcs()
	if len(arcs) != 1 {
		t.Fatalf("expected 1 arc, got %d", len(arcs))
	}

	// The transaction pairs the created IDs with backups of the deleted
	// segments, and the arc width landed in the side table.
	if len(report.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
	}
	tx := report.Transactions[0]
	if len(tx.CreatedLineIDs) != 2 || len(tx.CreatedArcIDs) != 1 {
		t.Errorf("transaction created %d lines / %d arcs", len(tx.CreatedLineIDs), len(tx.CreatedArcIDs))
	}
	if len(tx.Backups) != 2 {
		t.Errorf("expected 2 backed-up segments, got %d", len(tx.Backups))
	}
	if w, ok := ctx.ArcWidth("b1", arcs[0].ID); !ok || w != 3 {
		t.Errorf("arc width side table: %v %v", w, ok)
	}
}

func TestRunPassIdempotent(t *testing.T) {
	ctx, b := newTestContext(t)
	if _, err := b.CreatePolyline("SIG", "top", 3, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
	}); err != nil {
		t.Fatal(err)
	}

	tracks, _ := b.Tracks()
	if _, err := RunPass(ctx, tracks, 2, false, false); err != nil {
		t.Fatal(err)
	}
	linesAfterFirst, _ := b.Tracks()
	arcsAfterFirst, _ := b.Arcs()

	tracks, _ = b.Tracks()
	report, err := RunPass(ctx, tracks, 2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Paths != 0 {
		t.Errorf("second pass touched %d paths, want 0", report.Paths)
	}
	linesAfterSecond, _ := b.Tracks()
	arcsAfterSecond, _ := b.Arcs()
	if len(linesAfterSecond) != len(linesAfterFirst) || len(arcsAfterSecond) != len(arcsAfterFirst) {
		t.Error("second pass changed the board")
	}
}

func TestRunPassLeavesUnroundablePathsAlone(t *testing.T) {
	ctx, b := newTestContext(t)
	// Width 10 against radius 2 trips the width-feasibility guard.
	if _, err := b.CreatePolyline("SIG", "top", 10, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
	}); err != nil {
		t.Fatal(err)
	}

	tracks, _ := b.Tracks()
	report, err := RunPass(ctx, tracks, 2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
	after, _ := b.Tracks()
	if len(after) != 1 {
		t.Errorf("unroundable path must be left untouched, found %d tracks", len(after))
	}
}

func TestRunPassRequiresBoard(t *testing.T) {
	b := memboard.New(board.Info{})
	ctx := app.New(b, memboard.NewNotifier())
	var tracks []host.Track
	if _, err := RunPass(ctx, tracks, 2, false, false); err == nil {
		t.Error("expected an error without an active board")
	}
}
