package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-report/internal/gateway"
	"github.com/naka-gawa/repo-report/internal/report"
	"github.com/naka-gawa/repo-report/internal/usecase"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [username]",
	Short: "Print repository statistics to the terminal",
	Long: `Fetches and aggregates a user's repositories like the root command,
but prints a compact summary to stdout instead of writing report files.
Line sampling is skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	username := ""
	if len(args) > 0 {
		username = args[0]
	}

	fetcher := gateway.NewGitHubCLI(cfg.GitHub.Bin, cfg.GitHub.Limit, gateway.NewExecutor(logger), logger)
	analyzer := usecase.NewAnalyzer(fetcher, logger)

	res, err := analyzer.Run(cmd.Context(), usecase.Options{Username: username})
	if err != nil {
		return asCLIError(err)
	}

	meta := report.Meta{
		Username:    res.Username,
		GeneratedAt: res.GeneratedAt,
		Filter:      res.Filter,
	}
	return report.Summary(cmd.OutOrStdout(), meta, res.Stats, res.Repositories)
}
