package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/history"
	"pcb-polish/internal/taper"
)

var (
	taperRatio       float64
	taperMaxSegments int
)

var taperCmd = &cobra.Command{
	Use:   "taper",
	Short: "Smooth abrupt width changes into gradual transitions",
	Long: `Find junctions where two coincident track segments on the same net and
layer differ significantly in width and replace the end of the wider one
with a chain of short segments stepping smoothly down to the narrow width.`,
	Args: cobra.NoArgs,
	Run:  runTaper,
}

func init() {
	taperCmd.Flags().Float64Var(&taperRatio, "ratio", 0, "minimum wide/narrow ratio that triggers a transition (default: stored settings)")
	taperCmd.Flags().IntVar(&taperMaxSegments, "max-segments", 0, "number of steps in one transition (default: stored settings)")
	rootCmd.AddCommand(taperCmd)
}

func runTaper(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := ctx.Settings()
	if cmd.Flags().Changed("ratio") {
		s.WidthTransitionRatio = taperRatio
	}
	if cmd.Flags().Changed("max-segments") {
		s.WidthTransitionMaxSegments = taperMaxSegments
	}

	tracks, err := ctx.Host.Tracks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hist := history.NewManager(ctx)
	if _, _, err := hist.CreateSnapshot("Before width transitions", false, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := taper.RunPass(ctx, tracks, s.WidthTransitionRatio, s.WidthTransitionMaxSegments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, _, err := hist.CreateSnapshot("After width transitions", false, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(report.Summary())
}
