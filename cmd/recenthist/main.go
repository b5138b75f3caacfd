// Command recenthist prints the URLs visited in the last few minutes in
// Chromium-family browsers, reading their History databases while the
// browsers are running.
package main

import (
	"fmt"
	"os"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := app(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
