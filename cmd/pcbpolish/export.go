package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcb-polish/internal/boardfile"
)

var exportCmd = &cobra.Command{
	Use:   "export <fixture.yaml>",
	Short: "Write the current board state to a YAML fixture",
	Args:  cobra.ExactArgs(1),
	Run:   runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	_, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	doc, err := boardfile.Export(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := boardfile.Save(args[0], doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d tracks, %d arcs\n", args[0], len(doc.Tracks), len(doc.Arcs))
}
