package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junaire/brandy/internal/diagfmt"
	"github.com/junaire/brandy/internal/driver"
	"github.com/junaire/brandy/internal/project"
	"github.com/junaire/brandy/internal/trace"
)

func init() {
	rootCmd.Flags().Bool("no-ssa", false, "skip SSA conversion")
	rootCmd.Flags().Bool("no-cse", false, "skip common subexpression elimination")
	rootCmd.Flags().Bool("no-copyprop", false, "skip copy propagation")
	rootCmd.Flags().Bool("no-die", false, "skip dead instruction elimination")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	opts, cfg, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}

	in, err := driver.OpenInput(opts.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	res, runErr := driver.Run(opts, in, os.Stdout)

	res.Bag.Sort()
	res.Bag.Dedup()
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, diagfmt.PrettyOpts{Color: useColor(cmd, cfg)})
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, res.Timer.Summary())
	}
	if jsonTimings, _ := cmd.Root().PersistentFlags().GetBool("timings-json"); jsonTimings {
		data, err := json.Marshal(res.Timer.Report())
		if err != nil {
			return fmt.Errorf("encode timings: %w", err)
		}
		fmt.Fprintln(os.Stderr, string(data))
	}

	if runErr != nil {
		return runErr
	}
	if res.Bag.HasErrors() {
		return fmt.Errorf("pipeline reported errors")
	}
	return nil
}

// buildOptions merges brandy.toml with command-line flags; flags win.
func buildOptions(cmd *cobra.Command, args []string) (driver.Options, project.Config, error) {
	cfg, err := project.LoadFromDir(".")
	if err != nil {
		return driver.Options{}, project.Config{}, err
	}

	opts := driver.DefaultOptions()
	if len(args) == 1 {
		opts.Input = args[0]
	}

	opts.SSA = project.Enabled(cfg.Passes.SSA)
	opts.CSE = project.Enabled(cfg.Passes.CSE)
	opts.CopyProp = project.Enabled(cfg.Passes.CopyProp)
	opts.DIE = project.Enabled(cfg.Passes.DIE)

	if v, _ := cmd.Flags().GetBool("no-ssa"); v {
		opts.SSA = false
	}
	if v, _ := cmd.Flags().GetBool("no-cse"); v {
		opts.CSE = false
	}
	if v, _ := cmd.Flags().GetBool("no-copyprop"); v {
		opts.CopyProp = false
	}
	if v, _ := cmd.Flags().GetBool("no-die"); v {
		opts.DIE = false
	}

	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		opts.MaxDiagnostics = n
	}
	if traced, _ := cmd.Root().PersistentFlags().GetBool("trace"); traced {
		opts.Tracer = trace.NewWriter(os.Stderr, trace.LevelDetail)
	}

	return opts, cfg, nil
}

// useColor resolves the color flag against the config file and terminal.
func useColor(cmd *cobra.Command, cfg project.Config) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	if mode == "auto" && cfg.Output.Color != "" {
		mode = cfg.Output.Color
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(os.Stderr)
}
