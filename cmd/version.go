package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo records the commit hash and build timestamp injected at link
// time.
func SetBuildInfo(c, bt string) {
	commit = c
	buildTime = bt
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print the version string only")
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	short, _ := cmd.Flags().GetBool("short")
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if short {
		fmt.Fprintln(w, version)
		return nil
	}

	if asJSON {
		info := struct {
			Version   string `json:"version"`
			Commit    string `json:"commit"`
			Built     string `json:"built"`
			GoVersion string `json:"goVersion"`
			Platform  string `json:"platform"`
		}{
			Version:   version,
			Commit:    commit,
			Built:     buildTime,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "repo-report version %s\n", version)
	fmt.Fprintf(w, "  commit:     %s\n", commit)
	fmt.Fprintf(w, "  built:      %s\n", buildTime)
	fmt.Fprintf(w, "  go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
