// Package version carries the release identity of the brandy CLI, plus the
// build facts the version subcommand reports: the pass pipeline this build
// ships and the optional build metadata.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Release parts. These can be overridden at build time via -ldflags.
var (
	Major = "0"
	Minor = "1"
	Patch = "0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Passes lists the pipeline stages this build ships, in run order.
var Passes = []string{"ssa", "cse", "copyprop", "die"}

var accent = color.New(color.FgGreen, color.Bold)

// String renders the release version.
func String() string {
	return accent.Sprint(Major + "." + Minor + "." + Patch)
}

// Pipeline renders the pass list for display.
func Pipeline() string {
	return strings.Join(Passes, " -> ")
}
