package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external commands and captures their output.
type Executor interface {
	RunWithOutput(ctx context.Context, cmd string, args []string) ([]byte, error)
}

// DefaultExecutor implements Executor using os/exec.
type DefaultExecutor struct {
	env    []string
	logger *slog.Logger
}

// NewExecutor creates a new command executor.
func NewExecutor(logger *slog.Logger) *DefaultExecutor {
	return &DefaultExecutor{
		env:    os.Environ(),
		logger: logger,
	}
}

// RunWithOutput executes a command and returns its stdout. Stderr is folded
// into the returned error so callers can classify failures from the gh
// diagnostics.
func (e *DefaultExecutor) RunWithOutput(ctx context.Context, cmd string, args []string) ([]byte, error) {
	e.logger.Debug("executing command", "cmd", cmd, "args", args)

	c := exec.CommandContext(ctx, cmd, args...)
	c.Env = e.env

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
