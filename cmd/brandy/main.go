package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/junaire/brandy/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "brandy [file.json]",
	Short: "Brandy Bril optimizer",
	Long: `Brandy reads a JSON-encoded Bril program, converts each function to SSA
form, runs CSE, copy propagation and dead instruction elimination, and
writes the transformed functions back as JSON, one line per function.

With no file argument the program is read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(cfgCmd)
	rootCmd.AddCommand(domCmd)
	rootCmd.AddCommand(dotCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Bool("timings-json", false, "emit per-phase timings as JSON")
	rootCmd.PersistentFlags().Bool("trace", false, "trace pipeline phases to stderr")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
