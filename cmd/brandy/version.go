package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junaire/brandy/internal/driver"
	"github.com/junaire/brandy/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the brandy version and pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brandy %s\n", version.String())
		fmt.Printf("pipeline: %s\n", version.Pipeline())
		fmt.Printf("cache schema: %d\n", driver.CacheSchemaVersion)
		if version.GitCommit != "" {
			fmt.Printf("commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Printf("built:  %s\n", version.BuildDate)
		}
	},
}
