package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file at the workspace root.
const FileName = ".workman.yaml"

// DefaultLatestTag is the tag used when neither the workspace nor the
// project sets latest_tag.
const DefaultLatestTag = "latest"

// Workspace represents the .workman.yaml configuration.
type Workspace struct {
	LatestTag string              `yaml:"latest_tag"`
	Projects  map[string]*Project `yaml:"projects,omitempty"`
	Groups    Groups              `yaml:"groups,omitempty"`
}

// Project is the configuration of one workspace project.
type Project struct {
	Images    []Image `yaml:"images,omitempty"`
	LatestTag string  `yaml:"latest_tag,omitempty"`
}

// Image describes a container image built from a project. It may be
// written as a plain name or as a mapping.
type Image struct {
	Name       string `yaml:"name"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
	Context    string `yaml:"context,omitempty"`
}

// UnmarshalYAML accepts either a scalar image name or a mapping.
func (i *Image) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*i = Image{Name: node.Value}
		return nil
	}
	type plain Image
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*i = Image(p)
	return nil
}

// MarshalYAML writes images that only carry a name as a plain scalar.
func (i Image) MarshalYAML() (any, error) {
	if i.Dockerfile == "" && i.Context == "" {
		return i.Name, nil
	}
	type plain Image
	return plain(i), nil
}

// Groups holds the named project groups. The special key default_group
// names the group used when a command is given no project arguments.
type Groups struct {
	Sets    map[string][]string
	Default string
}

const defaultGroupKey = "default_group"

// IsZero reports whether no groups are configured.
func (g Groups) IsZero() bool {
	return len(g.Sets) == 0 && g.Default == ""
}

// UnmarshalYAML decodes the groups mapping, pulling out default_group.
func (g *Groups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: groups must be a mapping", node.Line)
	}
	*g = Groups{Sets: map[string][]string{}}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value == defaultGroupKey {
			if err := value.Decode(&g.Default); err != nil {
				return fmt.Errorf("line %d: %s must be a group name: %w", value.Line, defaultGroupKey, err)
			}
			continue
		}
		var members []string
		if err := value.Decode(&members); err != nil {
			return fmt.Errorf("line %d: group %q must be a list of project names: %w", value.Line, key.Value, err)
		}
		g.Sets[key.Value] = members
	}
	return nil
}

// MarshalYAML writes the groups back as a single mapping.
func (g Groups) MarshalYAML() (any, error) {
	out := make(map[string]any, len(g.Sets)+1)
	for name, members := range g.Sets {
		out[name] = members
	}
	if g.Default != "" {
		out[defaultGroupKey] = g.Default
	}
	return out, nil
}
