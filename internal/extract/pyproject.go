package extract

import (
	"github.com/fbkclanna/workman/internal/metadata"
	"github.com/fbkclanna/workman/internal/pyproject"
)

// Pyproject reads the [project] table of an existing pyproject.toml so
// that migration supplements it instead of overwriting it.
func Pyproject(path string) *metadata.Project {
	meta := metadata.New(metadata.SourcePyproject)
	doc, err := pyproject.Load(path)
	if err != nil {
		meta.Warnf("could not parse (%v)", err)
		return meta
	}
	fillFromDocument(meta, doc)
	return meta
}

// PyprojectDocument is Pyproject for an already decoded manifest.
func PyprojectDocument(doc pyproject.Document) *metadata.Project {
	meta := metadata.New(metadata.SourcePyproject)
	fillFromDocument(meta, doc)
	return meta
}

func fillFromDocument(meta *metadata.Project, doc pyproject.Document) {
	project := pyproject.Table(doc, "project")
	if project == nil {
		return
	}
	meta.Name = pyproject.String(project, "name")
	meta.Version = pyproject.String(project, "version")
	meta.Description = pyproject.String(project, "description")
	meta.RequiresPython = pyproject.String(project, "requires-python")
	meta.Dependencies = pyproject.StringList(project["dependencies"])

	for group, v := range pyproject.Table(project, "optional-dependencies") {
		meta.OptionalDependencies[group] = pyproject.StringList(v)
	}
	for name, v := range pyproject.Table(project, "scripts") {
		if target, ok := v.(string); ok {
			meta.EntryPoints[name] = target
		}
	}
}
