// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-report/internal/config"
	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
	"github.com/naka-gawa/repo-report/internal/output"
	"github.com/naka-gawa/repo-report/internal/report"
	"github.com/naka-gawa/repo-report/internal/usecase"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorFlag string

	lastDays   int
	lastYear   bool
	startDate  string
	endDate    string
	sampleSize int
	outputDir  string
	openReport bool

	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "repo-report [username]",
	Short: "Generate an HTML report of a GitHub user's repositories",
	Long: `repo-report fetches a user's repositories through the GitHub CLI,
filters them by creation date, optionally samples the largest ones for
line-count estimates, and writes an HTML report plus a JSON data dump.

Without a username the repositories of the authenticated gh user are
analyzed, including private ones.`,
	Example: `  repo-report
  repo-report octocat --last-year
  repo-report octocat --start-date 2024-01-01 --end-date 2024-06-30 --sample 10`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	},
	RunE: runReport,
}

// Execute runs the root command and returns its error for main to map onto
// an exit code.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion records the version string reported by --version and the
// version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .repo-report.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colorize output: auto, always or never")

	rootCmd.Flags().IntVar(&lastDays, "last-days", 0, "only repositories created in the last N days")
	rootCmd.Flags().BoolVar(&lastYear, "last-year", false, "only repositories created in the last 365 days")
	rootCmd.Flags().StringVar(&startDate, "start-date", "", "only repositories created on or after this date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endDate, "end-date", "", "only repositories created on or before this date (YYYY-MM-DD)")
	rootCmd.Flags().IntVarP(&sampleSize, "sample", "s", 5, "number of repositories to sample for line counts (0 disables)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for generated reports (default current directory)")
	rootCmd.Flags().BoolVar(&openReport, "open", false, "open the HTML report in a browser when done")
}

// initConfig loads the configuration and wires up the logger. Runs before
// every command.
func initConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "failed to load configuration",
			Detail:     err.Error(),
			Suggestion: "Check the syntax of .repo-report.yaml or pass --config",
			ExitCode:   output.ExitGeneral,
		}
	}
	cfg = loaded

	level := parseLogLevel(cfg.Logging.Level)
	if quiet {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newPrinter() *output.Printer {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		mode = output.ColorAuto
	}
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Quiet:        quiet,
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	sample := cfg.Sample.Size
	if cmd.Flags().Changed("sample") {
		sample = sampleSize
	}
	if sample < 0 {
		return &output.CLIError{
			Summary:    "invalid sample size",
			Detail:     "the sample size must be zero or positive",
			Suggestion: "Pass --sample 0 to disable line sampling",
			ExitCode:   output.ExitUsageError,
		}
	}

	dir := cfg.Output.Dir
	if cmd.Flags().Changed("output-dir") {
		dir = outputDir
	}

	username := ""
	if len(args) > 0 {
		username = args[0]
	}

	printer := newPrinter()
	fetcher := gateway.NewGitHubCLI(cfg.GitHub.Bin, cfg.GitHub.Limit, gateway.NewExecutor(logger), logger)
	analyzer := usecase.NewAnalyzer(fetcher, logger)

	if username != "" {
		printer.Info("Analyzing repositories for @%s", username)
	} else {
		printer.Info("Analyzing repositories for the authenticated user")
	}

	res, err := analyzer.Run(cmd.Context(), usecase.Options{
		Username: username,
		Filter: usecase.FilterOptions{
			LastDays:  lastDays,
			LastYear:  lastYear,
			StartDate: startDate,
			EndDate:   endDate,
		},
		SampleSize: sample,
	})
	if err != nil {
		return asCLIError(err)
	}

	meta := report.Meta{
		Username:    res.Username,
		GeneratedAt: res.GeneratedAt,
		Filter:      res.Filter,
		SampleSize:  sample,
	}
	htmlPath, jsonPath, err := report.Write(dir, meta, res.Stats, res.Repositories)
	if err != nil {
		return &output.CLIError{
			Summary:    "failed to write report",
			Detail:     err.Error(),
			Suggestion: "Check that the output directory exists and is writable",
			ExitCode:   output.ExitGeneral,
		}
	}

	printer.Success("Report written to %s", htmlPath)
	printer.Success("Data written to %s", jsonPath)

	if openReport {
		if err := openBrowser(htmlPath); err != nil {
			printer.Warning("could not open browser: %v", err)
		}
	}
	return nil
}

// asCLIError maps domain errors onto CLI errors with exit codes and
// actionable suggestions.
func asCLIError(err error) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrCLINotFound):
		return &output.CLIError{
			Summary:    "GitHub CLI not found",
			Detail:     err.Error(),
			Suggestion: "Install the GitHub CLI from https://cli.github.com and make sure it is on your PATH",
			ExitCode:   output.ExitGeneral,
		}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return &output.CLIError{
			Summary:    "not authenticated with GitHub",
			Detail:     err.Error(),
			Suggestion: "Run 'gh auth login' to authenticate",
			ExitCode:   output.ExitAuthError,
		}
	case errors.Is(err, domain.ErrUserNotFound):
		return &output.CLIError{
			Summary:    "user not found",
			Detail:     err.Error(),
			Suggestion: "Check the username spelling",
			ExitCode:   output.ExitNotFound,
		}
	case errors.Is(err, domain.ErrConflictingDateFilters), errors.Is(err, domain.ErrInvalidDate):
		return &output.CLIError{
			Summary:    "invalid date filter",
			Detail:     err.Error(),
			Suggestion: "Use --last-days, --last-year or --start-date/--end-date with dates formatted as YYYY-MM-DD",
			ExitCode:   output.ExitUsageError,
		}
	case errors.Is(err, domain.ErrFetchFailed):
		return &output.CLIError{
			Summary:    "GitHub request failed",
			Detail:     err.Error(),
			Suggestion: "Check your network connection and https://www.githubstatus.com",
			ExitCode:   output.ExitNetworkError,
		}
	}
	return err
}

// openBrowser opens path with the platform's default handler.
func openBrowser(path string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", path)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	return c.Start()
}
