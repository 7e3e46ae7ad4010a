package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ruleforge/vgen/pkg/cli"
)

const userSource = `package users

import "ruleforge/vgen/pkg/rules"

//vgen:validate try_new
type User struct {
	Name string ` + "`vgen:\"rules.Len::<_>(Min = 1, Max = 50)\"`" + `
	Age  int    ` + "`vgen:\"rules.Range::<_>(Min = 0, Max = 150)\"`" + `
}
`

const legacySource = `package users

import "ruleforge/vgen/pkg/rules"

//vgen:validate
type Legacy struct {
	Name string ` + "`vgen:\"rules.Len(Min = 1)\"`" + `
}
`

const brokenSource = `package users

//vgen:validate frobnicate
type Broken struct {
	X int
}
`

const testConfig = `cache:
  driver: memory
telemetry:
  logging:
    level: error
  metrics:
    enabled: false
`

// run executes the root command with args and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(dir, "vgen.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		writeFile(t, cfgPath, testConfig)
	}

	cfgFile = ""
	verbose = false
	generateFlags.noCache = false
	generateFlags.check = false
	lintFlags.strict = false
	lintFlags.format = "text"
	validatorsFlags.format = "text"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "users", "user.go")
	writeFile(t, input, userSource)

	out, err := run(t, dir, "generate", filepath.Join(dir, "users"))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "1 generated") {
		t.Errorf("expected summary to report 1 generated, got %q", out)
	}

	generated, err := os.ReadFile(filepath.Join(dir, "users", "user_vgen.go"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	for _, want := range []string{"type UserValidationError struct", "func NewUser("} {
		if !strings.Contains(string(generated), want) {
			t.Errorf("expected generated code to contain %q", want)
		}
	}

	if _, err := run(t, dir, "generate", "--check", filepath.Join(dir, "users")); err != nil {
		t.Errorf("expected --check to pass after generate, got %v", err)
	}
}

func TestGenerateCheckReportsStale(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.go"), userSource)

	out, err := run(t, dir, "generate", "--check", dir)
	if err == nil {
		t.Fatal("expected --check to fail when output is missing")
	}
	if !strings.Contains(out, "is out of date") {
		t.Errorf("expected stale report, got %q", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "user_vgen.go")); !os.IsNotExist(statErr) {
		t.Error("expected --check not to write output")
	}
}

func TestGenerateFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.go"), brokenSource)

	_, err := run(t, dir, "generate", dir)
	if err == nil {
		t.Fatal("expected generate to fail")
	}
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %T", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitFailed {
		t.Errorf("expected exit code %d, got %d", cli.ExitFailed, code)
	}
}

func TestInvalidConfigExitCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vgen.yaml"), "cache:\n  driver: postgres\n")

	_, err := run(t, dir, "generate", dir)
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("expected exit code %d, got %d", cli.ExitConfig, code)
	}
}

func TestLintCommand(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		args      []string
		expectErr bool
		contains  string
	}{
		{"valid", userSource, nil, false, "1 record(s) valid"},
		{"warning", legacySource, nil, false, "is generic"},
		{"strict warning", legacySource, []string{"--strict"}, true, "Strict mode enabled"},
		{"error", brokenSource, nil, true, "frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "input.go"), tt.source)

			args := append([]string{"lint"}, tt.args...)
			out, err := run(t, dir, append(args, dir)...)
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error=%v, got %v", tt.expectErr, err)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got %q", tt.contains, out)
			}
			if _, statErr := os.Stat(filepath.Join(dir, "input_vgen.go")); !os.IsNotExist(statErr) {
				t.Error("expected lint not to write output")
			}
		})
	}
}

func TestLintJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "legacy.go"), legacySource)

	out, err := run(t, dir, "lint", "--format", "json", dir)
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}

	var results []LintResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", out, err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Valid {
		t.Error("expected result to be valid")
	}
	if len(results[0].Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(results[0].Warnings))
	}
}

func TestLintUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "lint", "--format", "csv", dir); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestValidatorsCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "validators")
	if err != nil {
		t.Fatalf("validators failed: %v", err)
	}
	for _, want := range []string{"NAME", "Len", "Pattern"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "vgen "+Version) {
		t.Errorf("expected version line, got %q", out)
	}
}
