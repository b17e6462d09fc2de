package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/history"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Step the board back to the previous automatic snapshot",
	Long: `Restore the most recent pre-operation state from the automatic snapshot
history. Running a new pass after undoing discards the now-divergent
newer snapshots.`,
	Args: cobra.NoArgs,
	Run:  runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	snap, err := history.NewManager(ctx).UndoLastOperation()
	if errors.Is(err, history.ErrEndOfHistory) {
		fmt.Println("Nothing to undo")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Undid to %q (%s)\n", snap.Name, snap.ID)
}
