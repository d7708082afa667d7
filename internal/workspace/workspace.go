package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fbkclanna/workman/internal/config"
)

// Context holds the resolved root and the loaded configuration of a
// workspace.
type Context struct {
	Root       string
	ConfigPath string
	Config     *config.Workspace
	// HasConfig is false when the workspace has no .workman.yaml; Config is
	// then an empty configuration.
	HasConfig bool
}

// Project is one immediate subdirectory of the workspace.
type Project struct {
	Name string
	Dir  string
}

// Load resolves the workspace root and loads .workman.yaml if present.
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	ctx := &Context{
		Root:       root,
		ConfigPath: filepath.Join(root, config.FileName),
	}
	cfg, err := config.Load(ctx.ConfigPath)
	switch {
	case err == nil:
		ctx.Config = cfg
		ctx.HasConfig = true
	case errors.Is(err, fs.ErrNotExist):
		ctx.Config = &config.Workspace{LatestTag: config.DefaultLatestTag}
	default:
		return nil, err
	}
	return ctx, nil
}

// Discover returns the non-hidden immediate subdirectories of root, sorted
// by name.
func Discover(root string) ([]Project, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading workspace: %w", err)
	}
	var projects []Project
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		projects = append(projects, Project{Name: e.Name(), Dir: filepath.Join(root, e.Name())})
	}
	slices.SortFunc(projects, func(a, b Project) int { return strings.Compare(a.Name, b.Name) })
	return projects, nil
}

// Projects returns the discovered projects selected by selectors (project
// names and @group references). Selected names without a matching
// directory are ignored.
func (c *Context) Projects(selectors []string) ([]Project, error) {
	all, err := Discover(c.Root)
	if err != nil {
		return nil, err
	}
	names, err := c.Config.ResolveProjects(selectors)
	if err != nil {
		return nil, err
	}
	if names == nil {
		return all, nil
	}
	var selected []Project
	for _, p := range all {
		if slices.Contains(names, p.Name) {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// Names returns the names of projects.
func Names(projects []Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}
