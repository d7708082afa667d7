package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/fbkclanna/workman/internal/extract"
	"github.com/fbkclanna/workman/internal/metadata"
	"github.com/fbkclanna/workman/internal/pyproject"
	"github.com/fbkclanna/workman/internal/workspace"
)

// LegacyFiles are the packaging files a migration replaces, in the order
// they are reported.
var LegacyFiles = []string{"setup.py", "setup.cfg", "requirements.txt"}

// extractors read each legacy file, listed in merge priority order.
var extractors = []struct {
	file string
	read func(path string) *metadata.Project
}{
	{"setup.cfg", extract.SetupCfg},
	{"setup.py", extract.SetupPy},
	{"requirements.txt", extract.Requirements},
}

// Options controls a migration.
type Options struct {
	// Clean removes the legacy files once pyproject.toml is written.
	Clean bool
	// DryRun computes the manifest without writing or removing anything.
	DryRun bool
}

// Result is the outcome of migrating one project.
type Result struct {
	Project      string
	SourcesFound []string
	Warnings     []string
	FilesRemoved []string
	// Skipped is set when the project has no legacy files.
	Skipped bool
	// Change is the manifest rewrite; nil when skipped.
	Change *pyproject.Change
}

// Project migrates the project in dir.
func Project(dir string, opts Options) (*Result, error) {
	res := &Result{Project: filepath.Base(dir)}
	for _, name := range LegacyFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			res.SourcesFound = append(res.SourcesFound, name)
		}
	}
	if len(res.SourcesFound) == 0 {
		res.Skipped = true
		return res, nil
	}

	manifest := filepath.Join(dir, pyproject.FileName)
	var (
		existing pyproject.Document
		records  []*metadata.Project
	)
	before, err := os.ReadFile(manifest) //nolint:gosec // path is a project manifest inside the workspace
	switch {
	case err == nil:
		existing, err = pyproject.Parse(before)
		if err != nil {
			return nil, fmt.Errorf("%s: existing %w", res.Project, err)
		}
		records = append(records, extract.PyprojectDocument(existing))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%s: reading %s: %w", res.Project, pyproject.FileName, err)
	}

	for _, ex := range extractors {
		path := filepath.Join(dir, ex.file)
		if _, err := os.Stat(path); err == nil {
			records = append(records, ex.read(path))
		}
	}
	metadata.SortByPriority(records)
	meta := metadata.Merge(records)
	res.Warnings = meta.Warnings

	doc := pyproject.DeepMerge(existing, pyproject.Synthesize(meta, res.Project))
	after, err := pyproject.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Project, err)
	}
	res.Change = &pyproject.Change{
		Project: res.Project,
		Path:    manifest,
		Before:  string(before),
		After:   string(after),
	}
	if opts.DryRun {
		return res, nil
	}

	if err := res.Change.Write(); err != nil {
		return nil, fmt.Errorf("%s: %w", res.Project, err)
	}
	if opts.Clean {
		for _, name := range res.SourcesFound {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return res, fmt.Errorf("%s: removing %s: %w", res.Project, name, err)
			}
			res.FilesRemoved = append(res.FilesRemoved, name)
		}
	}
	return res, nil
}

// Workspace migrates every project. A failing project is logged and
// reported in the returned error; the others are still migrated. Results
// hold one entry per project that did not fail.
func Workspace(projects []workspace.Project, opts Options, log hclog.Logger) ([]*Result, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("migrate")

	var (
		results []*Result
		errs    *multierror.Error
	)
	for _, p := range projects {
		res, err := Project(p.Dir, opts)
		if err != nil {
			log.Error("migration failed", "project", p.Name, "error", err)
			errs = multierror.Append(errs, err)
			if res == nil {
				continue
			}
		}
		if res.Skipped {
			log.Debug("no legacy packaging files", "project", p.Name)
		} else {
			log.Debug("migrated", "project", p.Name, "sources", res.SourcesFound, "warnings", len(res.Warnings))
		}
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}

// Counts returns the number of migrated and skipped results.
func Counts(results []*Result) (migrated, skipped int) {
	for _, r := range results {
		if r.Skipped {
			skipped++
		} else {
			migrated++
		}
	}
	return migrated, skipped
}
