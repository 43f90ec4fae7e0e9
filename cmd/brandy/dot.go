package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/project"
)

var dotCmd = &cobra.Command{
	Use:   "dot [file.json]",
	Short: "Write a Graphviz .dot file per function",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDotDump,
}

func init() {
	dotCmd.Flags().String("out", ".", "output directory for .dot files")
}

func runDotDump(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	if cfgFile, err := project.LoadFromDir("."); err == nil && cfgFile.Output.DotDir != "" && !cmd.Flags().Changed("out") {
		outDir = cfgFile.Output.DotDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	analyses, res, err := analyzeInput(cmd, args)
	reportAnalysis(cmd, res)
	if err != nil {
		return err
	}

	// The analysis above is strictly sequential; only the file writes fan
	// out.
	var eg errgroup.Group
	for _, a := range analyses {
		a := a
		eg.Go(func() error {
			path := filepath.Join(outDir, a.Fn.Name+".dot")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := cfg.WriteDot(f, a.G); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(os.Stderr, "wrote %d graph(s) to %s\n", len(analyses), outDir)
	}
	return nil
}
