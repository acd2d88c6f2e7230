package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/at-ishikawa/recallr/internal/testutil"
)

func setupTestConfigFile(t *testing.T, tmpDir string) string {
	t.Helper()
	return testutil.SetupTestConfig(t, tmpDir)
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, cfgPath string, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return stdout.String(), err
}
