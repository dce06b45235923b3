// Package main is the entry point for the repo-report CLI.
package main

import (
	"errors"
	"os"

	"github.com/naka-gawa/repo-report/cmd"
	"github.com/naka-gawa/repo-report/internal/output"
)

// Build metadata, set at link time via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version)
	cmd.SetBuildInfo(commit, buildTime)

	if err := cmd.Execute(); err != nil {
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			printer := output.NewPrinter(output.ResolveColors(output.ColorAuto, true))
			printer.FormatError(cliErr)
			os.Exit(cliErr.ExitCode)
		}
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
