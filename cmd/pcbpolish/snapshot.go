package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pcb-polish/internal/history"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage board snapshots",
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Capture the current board state as a manual snapshot",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSnapshotCreate,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current board's snapshots, newest first",
	Args:  cobra.NoArgs,
	Run:   runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore the board to a snapshot's captured state",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotRestore,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotDelete,
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every snapshot of the current board",
	Args:  cobra.NoArgs,
	Run:   runSnapshotClear,
}

func init() {
	snapshotCmd.AddCommand(snapshotCreateCmd, snapshotListCmd, snapshotRestoreCmd,
		snapshotDeleteCmd, snapshotClearCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotCreate(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	name := "manual snapshot"
	if len(args) == 1 {
		name = args[0]
	}
	snap, created, err := history.NewManager(ctx).CreateSnapshot(name, true, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(snapshotCreateMessage(snap, created))
}

// snapshotCreateMessage renders the result line for snapshot create. The
// manager's second return is true when a snapshot was inserted and false
// when the board content already matched the latest one.
func snapshotCreateMessage(snap *history.Snapshot, created bool) string {
	if !created {
		return fmt.Sprintf("Board unchanged since snapshot %s, nothing captured", snap.ID)
	}
	return fmt.Sprintf("Snapshot %s created (%d lines, %d arcs)", snap.ID, len(snap.Lines), len(snap.Arcs))
}

func runSnapshotList(cmd *cobra.Command, args []string) {
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
	snaps, err := history.NewManager(ctx).List(info.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots")
		return
	}
	for _, s := range snaps {
		kind := "auto"
		if s.Manual {
			kind = "manual"
		}
		ts := time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04:05")
		fmt.Printf("%-18s %-6s %s  %s (%d lines, %d arcs)\n",
			s.ID, kind, ts, s.Name, len(s.Lines), len(s.Arcs))
	}
}

func runSnapshotRestore(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	report, err := history.NewManager(ctx).RestoreSnapshot(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Restored: %d deleted, %d created, %d kept\n",
		report.Deleted, report.Created, report.Kept)
}

func runSnapshotDelete(cmd *cobra.Command, args []string) {
	ctx, store, err := openContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := history.NewManager(ctx).DeleteSnapshot(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Snapshot %s deleted\n", args[0])
}

func runSnapshotClear(cmd *cobra.Command, args []string) {
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
	if err := history.NewManager(ctx).ClearSnapshots(info.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("History cleared")
}
