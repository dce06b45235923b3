package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/naka-gawa/repo-report/internal/output"
)

// resetReportFlags clears flag state leaking between Execute calls.
func resetReportFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"last-days", "last-year", "start-date", "end-date", "sample", "output-dir", "open"} {
		f := rootCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("flag %q not registered", name)
		}
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("resetting flag %q: %v", name, err)
		}
		f.Changed = false
	}
	// Cobra registers --help lazily on the first Execute and its value
	// sticks, so clear it when present.
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetReportFlags(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := executeRoot(t, "--help")
	if err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	for _, want := range []string{"repo-report [username]", "--last-days", "--sample", "--output-dir"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRootCmd_ConflictingDateFlags(t *testing.T) {
	// Validation happens before any gh invocation, so this is safe to run
	// without the CLI installed.
	_, err := executeRoot(t, "--last-days", "7", "--last-year")
	if err == nil {
		t.Fatal("expected error for conflicting date flags, got nil")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected a CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
}

func TestRootCmd_InvalidDate(t *testing.T) {
	_, err := executeRoot(t, "--start-date", "not-a-date")
	if err == nil {
		t.Fatal("expected error for malformed date, got nil")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected a CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
}

func TestRootCmd_NegativeSample(t *testing.T) {
	_, err := executeRoot(t, "--sample", "-1")
	if err == nil {
		t.Fatal("expected error for negative sample size, got nil")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected a CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
	if !strings.Contains(cliErr.Suggestion, "--sample 0") {
		t.Errorf("suggestion should mention disabling sampling, got %q", cliErr.Suggestion)
	}
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	_, err := executeRoot(t, "--definitely-not-a-flag")
	if err == nil {
		t.Fatal("expected error for unknown flag, got nil")
	}
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	_, err := executeRoot(t, "alice", "bob")
	if err == nil {
		t.Fatal("expected error for a second positional argument, got nil")
	}
}

func TestAsCLIError_Passthrough(t *testing.T) {
	plain := errors.New("something else")
	if got := asCLIError(plain); got != plain {
		t.Errorf("unmapped errors must pass through unchanged, got %v", got)
	}

	wrapped := &output.CLIError{Summary: "already mapped", ExitCode: output.ExitAuthError}
	if got := asCLIError(wrapped); got != error(wrapped) {
		t.Errorf("CLIErrors must pass through unchanged, got %v", got)
	}
}
