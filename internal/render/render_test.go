package render

import (
	"image/color"
	"testing"

	"pcb-polish/internal/board"
	"pcb-polish/internal/host/memboard"
	"pcb-polish/pkg/geometry"
)

func seededBoard(t *testing.T) *memboard.Board {
	t.Helper()
	b := memboard.New(board.Info{ID: "b1"})
	if _, err := b.CreatePolyline("SIG", "top", 3, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CreateArc(board.ArcRecord{Net: "SIG", Layer: "top", X1: 50, Y1: 50, X2: 60, Y2: 60, Sweep: 90, Width: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddPad(board.PadRecord{Net: "SIG", Layer: "top", X: 0, Y: 0, Diameter: 8}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddVia(board.ViaRecord{Net: "SIG", X: 60, Y: 60, Diameter: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CreateRegion(board.RegionRecord{
		Net: "SIG", Layer: "bottom", Name: "zone",
		Polygon: []geometry.Point2D{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 40}, {X: 10, Y: 40}},
	}); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBoardDrawsPrimitives(t *testing.T) {
	b := seededBoard(t)
	opts := DefaultOptions()
	opts.Width = 200
	opts.Height = 200
	img, err := Board(b, opts)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	// At least some pixels must differ from the background.
	bg := color.RGBAModel.Convert(opts.Background).(color.RGBA)
	painted := 0
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y) != bg {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("nothing was drawn")
	}
}

func TestBoardRendersAtAnySize(t *testing.T) {
	b := seededBoard(t)
	for _, size := range []struct{ w, h int }{{1, 1}, {2, 1}, {1, 2}, {16, 16}, {0, 0}, {-5, 10}} {
		opts := DefaultOptions()
		opts.Width = size.w
		opts.Height = size.h
		img, err := Board(b, opts)
		if err != nil {
			t.Fatalf("%dx%d: %v", size.w, size.h, err)
		}
		if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
			t.Errorf("%dx%d: degenerate image %v", size.w, size.h, img.Bounds())
		}
	}
}

func TestEmptyBoardIsBackgroundOnly(t *testing.T) {
	b := memboard.New(board.Info{ID: "empty"})
	opts := DefaultOptions()
	opts.Width = 8
	opts.Height = 8
	img, err := Board(b, opts)
	if err != nil {
		t.Fatal(err)
	}
	bg := color.RGBAModel.Convert(opts.Background).(color.RGBA)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if img.RGBAAt(x, y) != bg {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, img.RGBAAt(x, y))
			}
		}
	}
}
