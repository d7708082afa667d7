package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fbkclanna/workman/internal/pyproject"
	"github.com/fbkclanna/workman/internal/workspace"
)

// Rewriter applies plans to manifests in memory. Several plans touching the
// same manifest accumulate into a single Change.
type Rewriter struct {
	dirs    map[string]string
	changes map[string]*pyproject.Change
	order   []string
}

// NewRewriter returns a Rewriter for the given projects.
func NewRewriter(projects []workspace.Project) *Rewriter {
	dirs := make(map[string]string, len(projects))
	for _, p := range projects {
		dirs[p.Name] = p.Dir
	}
	return &Rewriter{dirs: dirs, changes: map[string]*pyproject.Change{}}
}

// Apply rewrites the specifier of plan.Package in every project named by
// plan.Edits and returns the projects whose manifest text changed. A
// skipped plan changes nothing.
func (r *Rewriter) Apply(plan Plan) ([]string, error) {
	if plan.Skipped {
		return nil, nil
	}
	var updated []string
	for _, edit := range plan.Edits {
		change, err := r.change(edit.Project)
		if err != nil {
			return updated, err
		}
		if change == nil {
			continue
		}
		next := pyproject.RewriteSpecifier(change.After, plan.Package, edit.To)
		if next == change.After {
			continue
		}
		change.After = next
		updated = append(updated, edit.Project)
	}
	return updated, nil
}

// Changes returns the manifests whose text differs from disk, in the order
// they were first touched.
func (r *Rewriter) Changes() []*pyproject.Change {
	var out []*pyproject.Change
	for _, proj := range r.order {
		if c := r.changes[proj]; c.Changed() {
			out = append(out, c)
		}
	}
	return out
}

func (r *Rewriter) change(project string) (*pyproject.Change, error) {
	if c, ok := r.changes[project]; ok {
		return c, nil
	}
	dir, ok := r.dirs[project]
	if !ok {
		return nil, fmt.Errorf("unknown project %q", project)
	}
	path := filepath.Join(dir, pyproject.FileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is a project manifest inside the workspace
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c := &pyproject.Change{Project: project, Path: path, Before: string(data), After: string(data)}
	r.changes[project] = c
	r.order = append(r.order, project)
	return c, nil
}

// Rewrite applies a single plan and returns the resulting changes.
func Rewrite(projects []workspace.Project, plan Plan) ([]*pyproject.Change, error) {
	r := NewRewriter(projects)
	if _, err := r.Apply(plan); err != nil {
		return nil, err
	}
	return r.Changes(), nil
}
