package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func executeVersion(t *testing.T, args ...string) string {
	t.Helper()
	resetReportFlags(t)
	for _, name := range []string{"short", "json"} {
		if err := versionCmd.Flags().Set(name, "false"); err != nil {
			t.Fatalf("resetting version flag %q: %v", name, err)
		}
		versionCmd.Flags().Lookup(name).Changed = false
	}
	SetBuildInfo("abc1234", "2025-03-01T00:00:00Z")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"version"}, args...))

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	return buf.String()
}

func TestVersionCmd_Default(t *testing.T) {
	out := executeVersion(t)

	for _, want := range []string{
		"repo-report version dev",
		"commit:",
		"abc1234",
		"built:",
		"2025-03-01T00:00:00Z",
		"go version:",
		"platform:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected version output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestVersionCmd_Short(t *testing.T) {
	out := executeVersion(t, "--short")

	if out != "dev\n" {
		t.Errorf("short output = %q, want %q", out, "dev\n")
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	out := executeVersion(t, "--json")

	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if info["version"] != "dev" {
		t.Errorf("version = %q, want %q", info["version"], "dev")
	}
	if info["commit"] != "abc1234" {
		t.Errorf("commit = %q, want %q", info["commit"], "abc1234")
	}
	for _, key := range []string{"built", "goVersion", "platform"} {
		if info[key] == "" {
			t.Errorf("expected %q field to be populated", key)
		}
	}
}
