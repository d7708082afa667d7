package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// artifactPattern matches Python build output anywhere below a project.
const artifactPattern = "*/**/{dist,build,__pycache__,*.egg-info}"

// Artifacts returns the build-artifact directories below the projects of
// root, relative to root and sorted. Directories inside hidden directories
// (virtualenvs, VCS metadata) are never reported, nor is anything nested in
// an already reported directory.
func Artifacts(root string) ([]string, error) {
	var found []string
	err := doublestar.GlobWalk(os.DirFS(root), artifactPattern, func(p string, d fs.DirEntry) error {
		if d.IsDir() && !hasHiddenComponent(p) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for build artifacts: %w", err)
	}

	slices.Sort(found)
	seen := make(map[string]bool, len(found))
	for _, p := range found {
		seen[p] = true
	}
	var out []string
	for _, p := range found {
		if !insideAny(p, seen) {
			out = append(out, filepath.FromSlash(p))
		}
	}
	return out, nil
}

// RemoveArtifacts deletes the given directories, relative to root.
func RemoveArtifacts(root string, rel []string) error {
	for _, p := range rel {
		if err := os.RemoveAll(filepath.Join(root, p)); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

func insideAny(p string, dirs map[string]bool) bool {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if dirs[dir] {
			return true
		}
	}
	return false
}

func hasHiddenComponent(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
