package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Markers delimiting the block of .gitignore that workman owns.
const (
	GitignoreStart = "# --- workman managed (do not edit) ---"
	GitignoreEnd   = "# --- end workman managed ---"
)

// UpdateGitignore writes the managed block listing each project directory
// into root/.gitignore. An existing block is replaced in place; otherwise
// the block is appended after a blank line. Content outside the block is
// preserved.
func UpdateGitignore(root string, names []string) error {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the workspace root
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	content := gitignoreContent(string(data), names)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // .gitignore is committed
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

func gitignoreContent(existing string, names []string) string {
	lines := []string{GitignoreStart}
	for _, n := range slices.Sorted(slices.Values(names)) {
		lines = append(lines, n+"/")
	}
	lines = append(lines, GitignoreEnd)
	block := strings.Join(lines, "\n")

	start := strings.Index(existing, GitignoreStart)
	end := strings.Index(existing, GitignoreEnd)
	if start >= 0 && end > start {
		return existing[:start] + block + existing[end+len(GitignoreEnd):]
	}

	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}
	if existing != "" && !strings.HasSuffix(existing, "\n\n") {
		existing += "\n"
	}
	return existing + block + "\n"
}
