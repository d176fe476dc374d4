package commands

import (
	"fmt"

	"ffupdater/internal/output"
	"ffupdater/internal/ui"
)

// Version information, set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func RunVersion() {
	output.Print(map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}, func() {
		fmt.Fprintf(ui.Out, "ffupdater version %s (commit %s, built %s)\n", Version, Commit, Date)
	})
}
