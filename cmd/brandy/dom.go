package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junaire/brandy/internal/diagfmt"
	"github.com/junaire/brandy/internal/driver"
	"github.com/junaire/brandy/internal/project"
)

var domCmd = &cobra.Command{
	Use:   "dom [file.json]",
	Short: "Dump dominator information for each function",
	Long: `Dom prints dominator sets, immediate dominators, dominance frontiers and
the dominator tree. With --cache, previously computed summaries are reused
from the disk cache, keyed by the function's content hash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDomDump,
}

func init() {
	domCmd.Flags().Bool("cache", false, "reuse cached dominator summaries")
}

func runDomDump(cmd *cobra.Command, args []string) error {
	useCache, _ := cmd.Flags().GetBool("cache")

	var cache *driver.DiskCache
	if useCache {
		var err error
		cache, err = driver.OpenDiskCache("brandy")
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	analyses, res, err := analyzeInput(cmd, args)
	reportAnalysis(cmd, res)
	if err != nil {
		return err
	}

	useColor := useColor(cmd, project.Config{})
	for _, a := range analyses {
		summary := driver.Summarize(a.Info)

		if cache != nil {
			key, err := driver.FunctionKey(a.Raw)
			if err != nil {
				return err
			}
			if cached, hit, err := cache.Get(key); err != nil {
				return err
			} else if hit {
				summary = cached
			} else if err := cache.Put(key, summary); err != nil {
				return err
			}
		}

		diagfmt.Header(os.Stdout, summary.Function, useColor)

		fmt.Println("dom:")
		rows := make([][2]string, 0, len(a.Fn.Blocks))
		for _, bb := range a.Fn.Blocks {
			rows = append(rows, [2]string{bb.Name, blockList(a.Info.Dom[bb])})
		}
		diagfmt.Table(os.Stdout, rows)

		fmt.Println("idom:")
		rows = rows[:0]
		for _, name := range summary.Blocks {
			rows = append(rows, [2]string{name, summary.IDom[name]})
		}
		diagfmt.Table(os.Stdout, rows)

		fmt.Println("dominance frontier:")
		rows = rows[:0]
		for _, name := range summary.Blocks {
			rows = append(rows, [2]string{name, fmt.Sprintf("%v", summary.Frontier[name])})
		}
		diagfmt.Table(os.Stdout, rows)

		fmt.Println("dom tree:")
		rows = rows[:0]
		for _, bb := range a.Fn.Blocks {
			rows = append(rows, [2]string{bb.Name, blockList(a.Info.Tree[bb])})
		}
		diagfmt.Table(os.Stdout, rows)
	}
	return nil
}
