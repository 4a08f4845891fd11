package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLintFlagsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package q\n\nconst Good = `--sql 11111111-2222-4333-8444-555555555555\nSELECT 1`\n\nconst Missing = `SELECT 2`\n\nconst Label = \"not sql\"\n")
	writeFile(t, dir, "b.go", "package q\n\nconst Dup = `--sql 11111111-2222-4333-8444-555555555555\nDELETE FROM t`\n")

	files, err := collect([]string{dir})
	if err != nil {
		t.Fatalf("collect returned error: %v", err)
	}
	violations, err := lint(files)
	if err != nil {
		t.Fatalf("lint returned error: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("violations = %+v, want 2", violations)
	}
	if violations[0].name != "Missing" || violations[1].name != "Dup" {
		t.Fatalf("violations = %+v", violations)
	}
	if !strings.Contains(violations[1].message, "Good") {
		t.Fatalf("duplicate message = %q", violations[1].message)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.go", "package q\n\nconst Q = `--sql 0a0a0a0a-1b1b-4c2c-8d3d-4e4e4e4e4e4e\nUPDATE t SET a = 1`\n")

	var stderr bytes.Buffer
	if code := run([]string{clean}, &stderr); code != 0 {
		t.Fatalf("run = %d, stderr %q", code, stderr.String())
	}

	bad := writeFile(t, dir, "bad.go", "package q\n\nvar Q2 = \"INSERT INTO t VALUES (1)\"\n")
	stderr.Reset()
	if code := run([]string{bad}, &stderr); code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "bad.go:3") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
