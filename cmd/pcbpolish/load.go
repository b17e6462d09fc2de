package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/boardfile"
	"pcb-polish/internal/host/sqlboard"
)

var loadCmd = &cobra.Command{
	Use:   "load <fixture.yaml>",
	Short: "Seed the board database from a YAML fixture",
	Long:  "Parse a YAML board fixture and load its tracks, arcs, pads, vias and config into the board database. The database file is replaced.",
	Args:  cobra.ExactArgs(1),
	Run:   runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) {
	doc, err := boardfile.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Start from a clean file so repeated loads are idempotent.
	if err := os.Remove(env.DB); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := sqlboard.Open(env.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := doc.Apply(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded board %q: %d tracks, %d arcs, %d pads, %d vias\n",
		doc.Board.ID, len(doc.Tracks), len(doc.Arcs), len(doc.Pads), len(doc.Vias))
}
