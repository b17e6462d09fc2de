package main

import (
	"strings"
	"testing"

	"pcb-polish/internal/app"
	"pcb-polish/internal/board"
	"pcb-polish/internal/history"
	"pcb-polish/internal/host/memboard"
)

func TestSnapshotCreateMessagePolarity(t *testing.T) {
	b := memboard.New(board.Info{ID: "b1", Name: "test board"})
	ctx := app.New(b, memboard.NewNotifier())
	if _, err := b.CreateLine(board.LineRecord{Net: "SIG", Layer: "top", Width: 6, X2: 10}); err != nil {
		t.Fatal(err)
	}
	mgr := history.NewManager(ctx)

	snap, created, err := mgr.CreateSnapshot("first", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if msg := snapshotCreateMessage(snap, created); !strings.HasPrefix(msg, "Snapshot ") {
		t.Errorf("fresh capture message = %q, want the created confirmation", msg)
	}

	// Unchanged board: the manager reports no insertion and the command
	// must say so, not the other way around.
	snap, created, err = mgr.CreateSnapshot("again", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if msg := snapshotCreateMessage(snap, created); !strings.Contains(msg, "unchanged") {
		t.Errorf("duplicate capture message = %q, want the unchanged notice", msg)
	}
}
