package pyproject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// Change is a pending rewrite of one project's manifest. Before is empty
// when the manifest does not exist yet.
type Change struct {
	Project string
	Path    string
	Before  string
	After   string
}

// Changed reports whether applying the change would alter the file.
func (c *Change) Changed() bool {
	return c.Before != c.After
}

// Write persists the new content.
func (c *Change) Write() error {
	if err := os.WriteFile(c.Path, []byte(c.After), 0644); err != nil { //nolint:gosec // manifest needs to be readable
		return fmt.Errorf("writing %s: %w", c.Path, err)
	}
	return nil
}

// Diff renders the change as a unified diff with a/ and b/ prefixed
// project-relative names.
func (c *Change) Diff() string {
	name := filepath.ToSlash(filepath.Join(c.Project, FileName))
	from := "a/" + name
	if c.Before == "" {
		from = "/dev/null"
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(c.Before),
		B:        difflib.SplitLines(c.After),
		FromFile: from,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
