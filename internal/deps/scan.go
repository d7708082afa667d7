package deps

import (
	"errors"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/fbkclanna/workman/internal/pyproject"
	"github.com/fbkclanna/workman/internal/specifier"
	"github.com/fbkclanna/workman/internal/workspace"
)

// Packages maps package name → project name → specifier. An empty
// specifier means the project declares the package without a constraint.
type Packages map[string]map[string]string

// Names returns the package names in sorted order.
func (p Packages) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// Scan reads the pyproject.toml of each project and records every
// declared dependency: main dependencies, optional-dependency groups and
// dependency groups. Within a project a package declared twice keeps the
// last specifier. Projects without a readable manifest are skipped.
func Scan(projects []workspace.Project, log hclog.Logger) Packages {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	pkgs := Packages{}
	for _, p := range projects {
		path := filepath.Join(p.Dir, pyproject.FileName)
		doc, err := pyproject.Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("no manifest, skipping", "project", p.Name)
			} else {
				log.Debug("unreadable manifest, skipping", "project", p.Name, "error", err)
			}
			continue
		}
		for name, spec := range specifier.NormalizeAll(pyproject.Dependencies(doc).All()) {
			if pkgs[name] == nil {
				pkgs[name] = map[string]string{}
			}
			pkgs[name][p.Name] = spec
		}
	}
	return pkgs
}

// FindMismatches returns the packages used by at least two projects with
// at least two distinct specifiers.
func FindMismatches(pkgs Packages) Packages {
	out := Packages{}
	for name, projects := range pkgs {
		if len(projects) < 2 {
			continue
		}
		distinct := map[string]bool{}
		for _, spec := range projects {
			distinct[spec] = true
		}
		if len(distinct) > 1 {
			out[name] = projects
		}
	}
	return out
}
