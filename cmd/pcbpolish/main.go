// pcbpolish is the command-line front end for the trace polishing passes.
// It operates on a SQLite board file so results persist between runs.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"pcb-polish/internal/app"
	"pcb-polish/internal/host/sqlboard"
	"pcb-polish/internal/version"
)

// Env is the environment-driven configuration.
type Env struct {
	DB  string `envconfig:"PCBPOLISH_DB" default:"board.db"`
	Log string `envconfig:"PCBPOLISH_LOG" default:"warn"`
}

var (
	env        Env
	dbOverride string
)

var rootCmd = &cobra.Command{
	Use:   "pcbpolish",
	Short: "Polish routed PCB traces: round corners, taper widths, add teardrops",
	Long: `pcbpolish post-processes routed boards: it rounds trace corners into
tangent arcs, smooths abrupt width changes into gradual transitions, adds
teardrop reinforcement at pads and vias, and keeps a snapshot history so
every pass can be undone.`,
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if dbOverride != "" {
			env.DB = dbOverride
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "board database file (default $PCBPOLISH_DB or board.db)")
}

func main() {
	if err := envconfig.Process("", &env); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openContext opens the board database and wires the application context.
// Callers must Close the returned store.
func openContext() (*app.Context, *sqlboard.Store, error) {
	store, err := sqlboard.Open(env.DB)
	if err != nil {
		return nil, nil, err
	}
	ctx := app.New(store, &termNotifier{})
	ctx.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(env.Log),
	}))
	return ctx, store, nil
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// termNotifier renders host feedback on the terminal.
type termNotifier struct{}

func (termNotifier) Toast(msg string) {
	fmt.Println(msg)
}

func (termNotifier) Confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func (termNotifier) ShowLoading(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (termNotifier) HideLoading() {}

func (termNotifier) Log(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
