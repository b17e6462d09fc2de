package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/app"
	"pcb-polish/internal/config"
	"pcb-polish/internal/history"
	"pcb-polish/internal/host"
	"pcb-polish/internal/route"
)

var (
	roundRadius     float64
	roundUnit       string
	roundMergeShort bool
	roundForceArc   bool
	roundSelection  bool
)

var roundCmd = &cobra.Command{
	Use:   "round",
	Short: "Round trace corners into tangent arcs",
	Long: `Reconstruct continuous paths from the board's track segments and replace
each interior corner with a tangent arc. Corners whose arc would be wider
than the trace allows are skipped; corners with very short legs can merge
into a single arc. Automatic snapshots bracket the pass so it can be undone.`,
	Args: cobra.NoArgs,
	Run:  runRound,
}

func init() {
	roundCmd.Flags().Float64Var(&roundRadius, "radius", 0, "corner radius (default: stored settings)")
	roundCmd.Flags().StringVar(&roundUnit, "unit", "", `radius unit, "mil" or "mm"`)
	roundCmd.Flags().BoolVar(&roundMergeShort, "merge-short", true, "merge corners with short shared legs into one arc")
	roundCmd.Flags().BoolVar(&roundForceArc, "force-arc", false, "emit heavily clamped arcs instead of keeping the corner straight")
	roundCmd.Flags().BoolVar(&roundSelection, "selection", false, "round only the selected tracks")
	rootCmd.AddCommand(roundCmd)
}

func runRound(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := ctx.Settings()
	if cmd.Flags().Changed("radius") {
		s.CornerRadius = roundRadius
	}
	if cmd.Flags().Changed("unit") {
		if roundUnit != config.UnitMil && roundUnit != config.UnitMM {
			fmt.Fprintf(os.Stderr, "Error: unknown unit %q\n", roundUnit)
			os.Exit(1)
		}
		s.RadiusUnit = roundUnit
	}
	if cmd.Flags().Changed("merge-short") {
		s.MergeShortSegments = roundMergeShort
	}
	if cmd.Flags().Changed("force-arc") {
		s.ForceArc = roundForceArc
	}

	tracks, err := selectTracks(ctx, roundSelection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hist := history.NewManager(ctx)
	if _, _, err := hist.CreateSnapshot("Before corner rounding", false, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := route.RunPass(ctx, tracks, s.RadiusMil(), s.MergeShortSegments, s.ForceArc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, _, err := hist.CreateSnapshot("After corner rounding", false, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(report.Summary())
}

// selectTracks returns either the whole board's tracks or only the
// selected ones.
func selectTracks(ctx *app.Context, selectionOnly bool) ([]host.Track, error) {
	tracks, err := ctx.Host.Tracks()
	if err != nil {
		return nil, err
	}
	if !selectionOnly {
		return tracks, nil
	}
	ids, err := ctx.Host.SelectedIDs()
	if err != nil {
		return nil, err
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	var out []host.Track
	for _, t := range tracks {
		if selected[t.ID()] {
			out = append(out, t)
		}
	}
	return out, nil
}
