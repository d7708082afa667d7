package pyproject

import (
	"slices"

	"github.com/fbkclanna/workman/internal/metadata"
)

// Defaults applied when the metadata does not say otherwise.
const (
	DefaultVersion        = "0.1.0"
	DefaultRequiresPython = ">=3.10"
	DefaultBuildBackend   = "hatchling.build"
)

// Synthesize builds a manifest from merged metadata. fallbackName is used
// when the metadata carries no name. Empty sections are omitted.
func Synthesize(meta *metadata.Project, fallbackName string) Document {
	project := map[string]any{
		"name":            orDefault(meta.Name, fallbackName),
		"version":         orDefault(meta.Version, DefaultVersion),
		"requires-python": orDefault(meta.RequiresPython, DefaultRequiresPython),
	}
	if d := metadata.Deref(meta.Description); d != "" {
		project["description"] = d
	}
	if len(meta.Dependencies) > 0 {
		project["dependencies"] = slices.Clone(meta.Dependencies)
	}
	if len(meta.OptionalDependencies) > 0 {
		extras := make(map[string]any, len(meta.OptionalDependencies))
		for group, deps := range meta.OptionalDependencies {
			extras[group] = slices.Clone(deps)
		}
		project["optional-dependencies"] = extras
	}
	if len(meta.EntryPoints) > 0 {
		scripts := make(map[string]any, len(meta.EntryPoints))
		for name, target := range meta.EntryPoints {
			scripts[name] = target
		}
		project["scripts"] = scripts
	}

	return Document{
		"build-system": map[string]any{
			"requires":      []string{"hatchling"},
			"build-backend": DefaultBuildBackend,
		},
		"project": project,
	}
}

func orDefault(s *string, def string) string {
	if v := metadata.Deref(s); v != "" {
		return v
	}
	return def
}
