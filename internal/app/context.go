// Package app provides the application context: the single shared object
// every component receives, owning the cross-invocation mutable state the
// host gives us nowhere else to anchor.
package app

import (
	"io"
	"log/slog"
	"runtime"
	"sync"

	"pcb-polish/internal/config"
	"pcb-polish/internal/host"
)

// Context is the injected application context. All shared mutable state
// lives here as named fields so every execution context the host spawns
// sees the same single source of truth. Components take a *Context
// explicitly; there are no package-level singletons.
type Context struct {
	Host   host.Host
	Notify host.Notifier
	Log    *slog.Logger

	// Refresh, when set, is invoked after a pass mutates the board so the
	// host view can redraw.
	Refresh func()

	mu        sync.Mutex
	settings  *config.Settings
	arcWidths map[arcKey]float64

	undoMu     sync.Mutex
	undoBusy   bool
	undoCursor map[string]string

	paceMu    sync.Mutex
	paceCount int
}

type arcKey struct {
	boardID string
	arcID   string
}

// paceEvery is how many primitive mutations pass between cooperative
// yields to the host UI.
const paceEvery = 8

// New creates a context around a host. The logger defaults to a discard
// handler; binaries install their own.
func New(h host.Host, n host.Notifier) *Context {
	return &Context{
		Host:       h,
		Notify:     n,
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		arcWidths:  make(map[arcKey]float64),
		undoCursor: make(map[string]string),
	}
}

// Settings returns the cached settings, loading them from the host config
// store on first use. Load failures fall back to defaults.
func (c *Context) Settings() config.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings == nil {
		s, err := config.Load(c.Host)
		if err != nil {
			c.Log.Warn("settings load failed, using defaults", "error", err)
		}
		c.settings = &s
	}
	return *c.settings
}

// SaveSettings persists the settings and refreshes the cache.
func (c *Context) SaveSettings(s config.Settings) error {
	if err := config.Save(c.Host, s); err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = &s
	c.mu.Unlock()
	return nil
}

// InvalidateSettings drops the settings cache so the next read reloads.
func (c *Context) InvalidateSettings() {
	c.mu.Lock()
	c.settings = nil
	c.mu.Unlock()
}

// SetArcWidth records the authoritative width for an arc primitive. The
// host's own width query is unreliable immediately after arc creation, so
// the creator writes the width here and snapshot capture reads it back.
// The table lives for the process only; it is a scoped workaround, not a
// general cache.
func (c *Context) SetArcWidth(boardID, arcID string, width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arcWidths[arcKey{boardID, arcID}] = width
}

// ArcWidth returns the recorded width for an arc, if any.
func (c *Context) ArcWidth(boardID, arcID string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.arcWidths[arcKey{boardID, arcID}]
	return w, ok
}

// TryBeginUndo acquires the undo reentrancy guard. A second undo while one
// is in flight gets false and must no-op.
func (c *Context) TryBeginUndo() bool {
	c.undoMu.Lock()
	defer c.undoMu.Unlock()
	if c.undoBusy {
		return false
	}
	c.undoBusy = true
	return true
}

// EndUndo releases the undo reentrancy guard.
func (c *Context) EndUndo() {
	c.undoMu.Lock()
	c.undoBusy = false
	c.undoMu.Unlock()
}

// UndoCursor returns the snapshot ID the undo cursor points at for a
// board, or "" when the history is clean.
func (c *Context) UndoCursor(boardID string) string {
	c.undoMu.Lock()
	defer c.undoMu.Unlock()
	return c.undoCursor[boardID]
}

// SetUndoCursor moves the undo cursor for a board; "" clears it.
func (c *Context) SetUndoCursor(boardID, snapshotID string) {
	c.undoMu.Lock()
	defer c.undoMu.Unlock()
	if snapshotID == "" {
		delete(c.undoCursor, boardID)
		return
	}
	c.undoCursor[boardID] = snapshotID
}

// Pace yields to the scheduler every few calls. Long passes call this once
// per primitive mutation so the host UI stays responsive; it is a
// scheduling courtesy, not a correctness requirement.
func (c *Context) Pace() {
	c.paceMu.Lock()
	c.paceCount++
	yield := c.paceCount%paceEvery == 0
	c.paceMu.Unlock()
	if yield {
		runtime.Gosched()
	}
}

// RequestRefresh invokes the host refresh callback when one is installed.
func (c *Context) RequestRefresh() {
	if c.Refresh != nil {
		c.Refresh()
	}
}
