package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleReport = `Release 14.7 - xst P.20131013 (lin64)
WARNING:Xst:2042 - Unit top: 1 internal tristate is replaced by logic
ERROR:Ngdbuild:604 - logical block 'u1' with type 'ram' could not be resolved
Synthesis complete.
WARNING:Xst:2042 - Unit sub: 2 internal tristates are replaced by logic
`

const warningsOnlyReport = `WARNING:Xst:2042 - Unit top: 1 internal tristate is replaced by logic
INFO:Xst:1561 - Mux is complete
`

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// emptyProject writes a project file without waivers so tests do not pick
// up a .xilreport from the user's home directory.
func emptyProject(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "project.yaml", "failOn: [ERROR]\n")
}
