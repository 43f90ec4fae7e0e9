package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/diagfmt"
	"github.com/junaire/brandy/internal/driver"
	"github.com/junaire/brandy/internal/project"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg [file.json]",
	Short: "Dump each function's control-flow graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCfgDump,
}

func init() {
	cfgCmd.Flags().Bool("instrs", false, "also list each block's instructions")
}

func runCfgDump(cmd *cobra.Command, args []string) error {
	analyses, res, err := analyzeInput(cmd, args)
	reportAnalysis(cmd, res)
	if err != nil {
		return err
	}

	useColor := useColor(cmd, project.Config{})
	withInstrs, _ := cmd.Flags().GetBool("instrs")
	for _, a := range analyses {
		diagfmt.Header(os.Stdout, a.Fn.Name, useColor)

		if withInstrs {
			if err := bril.Dump(os.Stdout, a.Fn); err != nil {
				return err
			}
		}

		fmt.Println("successors:")
		rows := make([][2]string, 0, len(a.Fn.Blocks))
		for _, bb := range a.Fn.Blocks {
			rows = append(rows, [2]string{bb.Name, blockList(a.G.Succs(bb))})
		}
		diagfmt.Table(os.Stdout, rows)

		fmt.Println("predecessors:")
		rows = rows[:0]
		for _, bb := range a.Fn.Blocks {
			rows = append(rows, [2]string{bb.Name, blockList(a.G.Preds(bb))})
		}
		diagfmt.Table(os.Stdout, rows)
	}
	return nil
}

func blockList(blocks []*bril.Block) string {
	names := make([]string, len(blocks))
	for i, bb := range blocks {
		names[i] = bb.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// analyzeInput runs the analysis-only pipeline over the input argument.
func analyzeInput(cmd *cobra.Command, args []string) ([]driver.FunctionAnalysis, *driver.Result, error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	in, err := driver.OpenInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	opts := driver.DefaultOptions()
	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		opts.MaxDiagnostics = n
	}
	return driver.Analyze(opts, in)
}

// reportAnalysis prints accumulated diagnostics to stderr.
func reportAnalysis(cmd *cobra.Command, res *driver.Result) {
	if res == nil || res.Bag.Len() == 0 {
		return
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	diagfmt.Pretty(os.Stderr, res.Bag, diagfmt.PrettyOpts{Color: useColor(cmd, project.Config{})})
}
