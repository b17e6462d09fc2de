// boardview is a small desktop viewer for a board database: it shows the
// rendered board and runs the polishing passes from a toolbar.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/kelseyhightower/envconfig"

	"pcb-polish/internal/app"
	"pcb-polish/internal/history"
	"pcb-polish/internal/host"
	"pcb-polish/internal/host/sqlboard"
	"pcb-polish/internal/render"
	"pcb-polish/internal/route"
	"pcb-polish/internal/taper"
	"pcb-polish/internal/teardrop"
)

// Env is the environment-driven configuration, shared with the CLI.
type Env struct {
	DB  string `envconfig:"PCBPOLISH_DB" default:"board.db"`
	Log string `envconfig:"PCBPOLISH_LOG" default:"warn"`
}

func main() {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		env.DB = os.Args[1]
	}

	store, err := sqlboard.Open(env.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&boardTheme{})
	win := fyneApp.NewWindow("Board View")
	win.Resize(fyne.NewSize(1100, 800))

	v := newViewer(win, store)
	win.SetContent(v.content())
	v.refresh()
	win.ShowAndRun()
}

// viewer wires the application context to the window widgets.
type viewer struct {
	win   fyne.Window
	ctx   *app.Context
	hist  *history.Manager
	image *canvas.Image
	state *widget.Label
}

func newViewer(win fyne.Window, store *sqlboard.Store) *viewer {
	v := &viewer{
		win:   win,
		state: widget.NewLabel("Ready"),
	}
	v.ctx = app.New(store, &windowNotifier{v: v})
	v.ctx.Log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	v.ctx.Refresh = v.refresh
	v.hist = history.NewManager(v.ctx)

	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillContain
	return v
}

func (v *viewer) content() fyne.CanvasObject {
	toolbar := container.NewHBox(
		widget.NewButton("Round", v.runRound),
		widget.NewButton("Taper", v.runTaper),
		widget.NewButton("Teardrops", v.runTeardrops),
		widget.NewButton("Snapshot", v.runSnapshot),
		widget.NewButton("Undo", v.runUndo),
	)
	return container.NewBorder(
		toolbar,                        // top
		container.NewPadded(v.state),   // bottom
		nil,                            // left
		nil,                            // right
		v.image,                        // center
	)
}

// refresh re-renders the board into the image widget.
func (v *viewer) refresh() {
	img, err := render.Board(v.ctx.Host, render.DefaultOptions())
	if err != nil {
		v.setStatus("Render failed: " + err.Error())
		return
	}
	v.image.Image = img
	v.image.Refresh()
}

func (v *viewer) setStatus(msg string) {
	v.state.SetText(msg)
}

// bracketed runs a pass between an automatic before/after snapshot pair.
func (v *viewer) bracketed(label string, pass func() (string, error)) {
	if _, _, err := v.hist.CreateSnapshot("Before "+label, false, false); err != nil {
		v.setStatus("Snapshot failed: " + err.Error())
		return
	}
	summary, err := pass()
	if err != nil {
		v.setStatus(label + " failed: " + err.Error())
		return
	}
	if _, _, err := v.hist.CreateSnapshot("After "+label, false, true); err != nil {
		v.setStatus("Snapshot failed: " + err.Error())
		return
	}
	v.setStatus(summary)
	v.refresh()
}

func (v *viewer) runRound() {
	v.bracketed("corner rounding", func() (string, error) {
		s := v.ctx.Settings()
		tracks, err := v.ctx.Host.Tracks()
		if err != nil {
			return "", err
		}
		report, err := route.RunPass(v.ctx, tracks, s.RadiusMil(), s.MergeShortSegments, s.ForceArc)
		if err != nil {
			return "", err
		}
		return report.Summary(), nil
	})
}

func (v *viewer) runTaper() {
	v.bracketed("width transitions", func() (string, error) {
		s := v.ctx.Settings()
		tracks, err := v.ctx.Host.Tracks()
		if err != nil {
			return "", err
		}
		report, err := taper.RunPass(v.ctx, tracks, s.WidthTransitionRatio, s.WidthTransitionMaxSegments)
		if err != nil {
			return "", err
		}
		return report.Summary(), nil
	})
}

func (v *viewer) runTeardrops() {
	v.bracketed("teardrops", func() (string, error) {
		report, err := teardrop.RunPass(v.ctx, v.ctx.Settings().TeardropSize, nil)
		if err != nil {
			return "", err
		}
		return report.Summary(), nil
	})
}

func (v *viewer) runSnapshot() {
	snap, created, err := v.hist.CreateSnapshot("manual snapshot", true, false)
	if err != nil {
		v.setStatus("Snapshot failed: " + err.Error())
		return
	}
	if !created {
		v.setStatus("Board unchanged since " + snap.Name)
		return
	}
	v.setStatus("Snapshot " + snap.ID + " created")
}

func (v *viewer) runUndo() {
	snap, err := v.hist.UndoLastOperation()
	if err != nil {
		v.setStatus("Undo: " + err.Error())
		return
	}
	v.setStatus("Undid to " + snap.Name)
	v.refresh()
}

// windowNotifier surfaces host feedback through the window.
type windowNotifier struct {
	v *viewer
}

var _ host.Notifier = (*windowNotifier)(nil)

func (n *windowNotifier) Toast(msg string) {
	n.v.setStatus(msg)
}

func (n *windowNotifier) Confirm(question string) bool {
	// The history manager calls Confirm synchronously; answer from a
	// blocking dialog.
	ch := make(chan bool, 1)
	dialog.ShowConfirm("Confirm", question, func(yes bool) { ch <- yes }, n.v.win)
	return <-ch
}

func (n *windowNotifier) ShowLoading(msg string) {
	n.v.setStatus(msg)
}

func (n *windowNotifier) HideLoading() {}

func (n *windowNotifier) Log(msg string) {
	n.v.setStatus(msg)
}
