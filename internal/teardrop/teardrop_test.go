package teardrop

import (
	"testing"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host/memboard"
	"pcb-polish/pkg/geometry"
)

func newPadBoard(t *testing.T) (*app.Context, *memboard.Board) {
	t.Helper()
	b := memboard.New(board.Info{ID: "b1"})
	b.AddPad(board.PadRecord{ID: "pad1", Net: "SIG", Layer: "top", X: 0, Y: 0, Diameter: 8})
	if _, err := b.CreateLine(board.LineRecord{
		Net: "SIG", Layer: "top", Width: 4, X1: 0, Y1: 0, X2: 40, Y2: 0,
	}); err != nil {
		t.Fatal(err)
	}
	return app.New(b, memboard.NewNotifier()), b
}

func TestTeardropCreatesTaggedRegion(t *testing.T) {
	ctx, b := newPadBoard(t)
	report, err := RunPass(ctx, 0.8, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created != 1 {
		t.Fatalf("created = %d, want 1", report.Created)
	}

	regions, _ := b.Regions()
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Name != RegionName || r.Net != "SIG" || r.Layer != "top" {
		t.Errorf("region fields: %+v", r)
	}
	if len(r.Polygon) < 10 {
		t.Errorf("polygon too coarse: %d points", len(r.Polygon))
	}

	// The apex sits along the track at width*3*size from the pad center.
	wantApex := geometry.Point2D{X: 4 * 3 * 0.8, Y: 0}
	found := false
	for _, p := range r.Polygon {
		if geometry.PointsEqualWithin(p, wantApex, 1e-9) {
			found = true
		}
	}
	if !found {
		t.Errorf("apex %v not in polygon", wantApex)
	}

	// The flanks straddle the track symmetrically at half the full
	// spacing width*2*size.
	wantFlank := 4.0 * 2 * 0.8 / 2
	var maxY, minY float64
	for _, p := range r.Polygon {
		if p.Y > maxY {
			maxY = p.Y
		}
		if p.Y < minY {
			minY = p.Y
		}
	}
	if maxY < wantFlank-1e-9 || -minY < wantFlank-1e-9 {
		t.Errorf("flank extent %v/%v, want +-%v", maxY, minY, wantFlank)
	}
}

func TestTeardropRerunLeavesOneRegion(t *testing.T) {
	ctx, b := newPadBoard(t)
	if _, err := RunPass(ctx, 0.8, nil); err != nil {
		t.Fatal(err)
	}
	report, err := RunPass(ctx, 0.8, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Removed != 1 {
		t.Errorf("second run removed %d stale regions, want 1", report.Removed)
	}
	regions, _ := b.Regions()
	if len(regions) != 1 {
		t.Errorf("expected exactly 1 region after rerun, got %d", len(regions))
	}
}

func TestTeardropSkipsDistantTracks(t *testing.T) {
	b := memboard.New(board.Info{ID: "b1"})
	b.AddPad(board.PadRecord{ID: "pad1", Net: "SIG", Layer: "top", X: 0, Y: 0, Diameter: 8})
	// Track on the same net but nowhere near the pad.
	if _, err := b.CreateLine(board.LineRecord{
		Net: "SIG", Layer: "top", Width: 4, X1: 100, Y1: 100, X2: 140, Y2: 100,
	}); err != nil {
		t.Fatal(err)
	}
	ctx := app.New(b, memboard.NewNotifier())

	report, err := RunPass(ctx, 0.8, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created != 0 {
		t.Errorf("distant track produced a teardrop: %+v", report)
	}
}

func TestTeardropNoNetNoRegion(t *testing.T) {
	b := memboard.New(board.Info{ID: "b1"})
	b.AddVia(board.ViaRecord{ID: "v1", Net: "", X: 0, Y: 0, Diameter: 6})
	ctx := app.New(b, memboard.NewNotifier())

	report, err := RunPass(ctx, 0.8, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created != 0 {
		t.Errorf("netless via produced a teardrop: %+v", report)
	}
}

func TestTeardropSelectionFilter(t *testing.T) {
	ctx, b := newPadBoard(t)
	b.AddVia(board.ViaRecord{ID: "v1", Net: "SIG", X: 40, Y: 0, Diameter: 6})

	report, err := RunPass(ctx, 0.8, []string{"v1"})
	if err != nil {
		t.Fatal(err)
	}
	// Only the via was requested; the pad's track end is ignored.
	if report.Pads != 1 || report.Created != 1 {
		t.Errorf("selection filter: %+v", report)
	}
}
