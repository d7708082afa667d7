// Package testutil provides helpers for building workspace fixtures in
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/rel, creating parent directories.
// Returns the full path.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test directory
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// ReadFile returns the content of path, failing the test if it cannot be
// read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Workspace creates a temporary workspace containing files, keyed by their
// slash-separated path relative to the workspace root. Keys ending in "/"
// create empty directories. Returns the workspace root.
func Workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		if rel != "" && rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0755); err != nil { //nolint:gosec // test directory
				t.Fatal(err)
			}
			continue
		}
		WriteFile(t, root, rel, content)
	}
	return root
}
