package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display the board and current settings",
	Args:  cobra.NoArgs,
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	info, err := ctx.Host.CurrentBoard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tracks, _ := ctx.Host.Tracks()
	arcs, _ := ctx.Host.Arcs()
	pads, _ := ctx.Host.Pads()
	vias, _ := ctx.Host.Vias()
	regions, _ := ctx.Host.Regions()

	fmt.Printf("Board: %s", info.ID)
	if info.Name != "" {
		fmt.Printf(" (%s)", info.Name)
	}
	fmt.Println()
	fmt.Printf("  Tracks:  %d\n", len(tracks))
	fmt.Printf("  Arcs:    %d\n", len(arcs))
	fmt.Printf("  Pads:    %d\n", len(pads))
	fmt.Printf("  Vias:    %d\n", len(vias))
	fmt.Printf("  Regions: %d\n", len(regions))

	s := ctx.Settings()
	fmt.Println("Settings:")
	fmt.Printf("  Corner radius:     %g %s\n", s.CornerRadius, s.RadiusUnit)
	fmt.Printf("  Merge short legs:  %v\n", s.MergeShortSegments)
	fmt.Printf("  Force arc:         %v\n", s.ForceArc)
	fmt.Printf("  Transition ratio:  %g\n", s.WidthTransitionRatio)
	fmt.Printf("  Teardrop size:     %g\n", s.TeardropSize)
}
