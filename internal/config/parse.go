package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Save validates and writes a workspace configuration to disk.
func Save(path string, ws *Workspace) error {
	if err := validate(ws); err != nil {
		return err
	}
	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // config is meant to be committed and shared
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load reads and validates a .workman.yaml file.
func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace config
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates .workman.yaml content. An empty document is a
// valid, empty configuration.
func Parse(data []byte) (*Workspace, error) {
	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if ws.LatestTag == "" {
		ws.LatestTag = DefaultLatestTag
	}
	for name, p := range ws.Projects {
		if p == nil {
			ws.Projects[name] = &Project{}
		}
	}
	if err := validate(&ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func validate(ws *Workspace) error {
	for name, p := range ws.Projects {
		if err := validatePath(name, "projects"); err != nil {
			return err
		}
		if p == nil {
			continue
		}
		for i, img := range p.Images {
			if img.Name == "" {
				return fmt.Errorf("config: projects.%s.images[%d].name is required", name, i)
			}
			if img.Context != "" {
				if err := validatePath(img.Context, fmt.Sprintf("projects.%s.images[%d].context", name, i)); err != nil {
					return err
				}
			}
		}
	}

	for name := range ws.Groups.Sets {
		if name == AllSelector {
			return fmt.Errorf("config: group name %q is reserved", AllSelector)
		}
	}
	if d := ws.Groups.Default; d != "" {
		if _, ok := ws.Groups.Sets[d]; !ok {
			return fmt.Errorf("config: groups.%s %q is not a defined group", defaultGroupKey, d)
		}
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("config: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("config: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
