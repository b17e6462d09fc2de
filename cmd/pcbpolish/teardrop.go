package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/history"
	"pcb-polish/internal/teardrop"
)

var (
	teardropSize      float64
	teardropSelection bool
)

var teardropCmd = &cobra.Command{
	Use:   "teardrop",
	Short: "Add teardrop reinforcement where tracks meet pads and vias",
	Long: `Generate a filled teardrop region at every junction where a track end
touches a pad or via on the same net. Re-running the pass replaces the
teardrops it generated before.`,
	Args: cobra.NoArgs,
	Run:  runTeardrop,
}

func init() {
	teardropCmd.Flags().Float64Var(&teardropSize, "size", 0, "teardrop length as a fraction of pad diameter (default: stored settings)")
	teardropCmd.Flags().BoolVar(&teardropSelection, "selection", false, "only the selected pads and vias")
	rootCmd.AddCommand(teardropCmd)
}

func runTeardrop(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := ctx.Settings()
	if cmd.Flags().Changed("size") {
		s.TeardropSize = teardropSize
	}

	var onlyIDs []string
	if teardropSelection {
		onlyIDs, err = ctx.Host.SelectedIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(onlyIDs) == 0 {
			fmt.Println("Nothing selected")
			return
		}
	}

	hist := history.NewManager(ctx)
	if _, _, err := hist.CreateSnapshot("Before teardrops", false, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := teardrop.RunPass(ctx, s.TeardropSize, onlyIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, _, err := hist.CreateSnapshot("After teardrops", false, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(report.Summary())
}
