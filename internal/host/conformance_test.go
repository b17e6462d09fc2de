package host_test

import (
	"testing"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/host"
	"pcb-polish/internal/host/memboard"
	"pcb-polish/internal/host/sqlboard"
	"pcb-polish/internal/route"
	"pcb-polish/pkg/geometry"
)

// seedStore is the common surface of the two reference hosts.
type seedStore interface {
	host.Host
	SetBoard(info board.Info) error
	CreatePolyline(net, layer string, width float64, points []geometry.Point2D) (string, error)
}

// forEachHost runs a subtest against both reference host implementations.
func forEachHost(t *testing.T, fn func(t *testing.T, s seedStore)) {
	t.Helper()
	t.Run("memboard", func(t *testing.T) {
		fn(t, memboard.New(board.Info{ID: "conf"}))
	})
	t.Run("sqlboard", func(t *testing.T) {
		s, err := sqlboard.OpenMemory()
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		if err := s.SetBoard(board.Info{ID: "conf"}); err != nil {
			t.Fatal(err)
		}
		fn(t, s)
	})
}

func TestHostsAgreeOnPrimitiveLifecycle(t *testing.T) {
	forEachHost(t, func(t *testing.T, s seedStore) {
		id, err := s.CreatePolyline("SIG", "top", 3, []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
		})
		if err != nil {
			t.Fatal(err)
		}
		tracks, err := s.Tracks()
		if err != nil {
			t.Fatal(err)
		}
		if len(tracks) != 1 || tracks[0].ID() != id || len(tracks[0].Points()) != 3 {
			t.Fatalf("tracks = %v", tracks)
		}

		arcID, err := s.CreateArc(board.ArcRecord{Net: "SIG", Layer: "top", X1: 1, Y2: 1, Sweep: 90, Width: 3})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.DeleteArcs([]string{arcID}); err != nil {
			t.Fatal(err)
		}
		arcs, _ := s.Arcs()
		if len(arcs) != 0 {
			t.Error("arc survived delete")
		}

		if err := s.DeleteLines([]string{id}); err != nil {
			t.Fatal(err)
		}
		tracks, _ = s.Tracks()
		if len(tracks) != 0 {
			t.Error("track survived delete")
		}
	})
}

func TestHostsAgreeOnConfigRoundTrip(t *testing.T) {
	forEachHost(t, func(t *testing.T, s seedStore) {
		if err := s.SetConfig("k", `{"a":1}`); err != nil {
			t.Fatal(err)
		}
		v, ok, err := s.GetConfig("k")
		if err != nil || !ok || v != `{"a":1}` {
			t.Fatalf("got %q ok=%v err=%v", v, ok, err)
		}
		if _, ok, _ := s.GetConfig("absent"); ok {
			t.Error("absent key reported present")
		}
	})
}

// The same rounding pass must produce the same primitive counts on both
// hosts.
func TestHostsAgreeOnRoundingPass(t *testing.T) {
	forEachHost(t, func(t *testing.T, s seedStore) {
		if _, err := s.CreatePolyline("SIG", "top", 3, []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
		}); err != nil {
			t.Fatal(err)
		}
		ctx := app.New(s, memboard.NewNotifier())
		tracks, err := s.Tracks()
		if err != nil {
			t.Fatal(err)
		}
		report, err := route.RunPass(ctx, tracks, 2, false, false)
		if err != nil {
			t.Fatal(err)
		}
		if report.Rounded != 1 {
			t.Fatalf("rounded = %d, want 1", report.Rounded)
		}
		arcs, _ := s.Arcs()
		if len(arcs) != 1 {
			t.Errorf("arcs = %d, want 1", len(arcs))
		}
		after, _ := s.Tracks()
		if len(after) != 2 {
			t.Errorf("tracks after pass = %d, want 2", len(after))
		}
	})
}
