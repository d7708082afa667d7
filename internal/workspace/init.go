package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fbkclanna/workman/internal/config"
)

// InitProject reports what Init found for one project directory.
type InitProject struct {
	Name       string
	Dockerfile bool
}

// InitResult is the outcome of Init.
type InitResult struct {
	ConfigPath string
	Config     *config.Workspace
	Projects   []InitProject
}

// Init scans root and writes a fresh .workman.yaml. Projects with a
// Dockerfile get an image named after their directory. Every project
// directory is also listed in the managed block of root/.gitignore.
func Init(root string) (*InitResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	configPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return nil, fmt.Errorf("%s already exists in %s; remove it first to re-initialize", config.FileName, root)
	}

	projects, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no subdirectories found in workspace %s", root)
	}

	res := &InitResult{
		ConfigPath: configPath,
		Config:     &config.Workspace{LatestTag: config.DefaultLatestTag},
	}
	for _, p := range projects {
		_, statErr := os.Stat(filepath.Join(p.Dir, "Dockerfile"))
		hasDockerfile := statErr == nil
		res.Projects = append(res.Projects, InitProject{Name: p.Name, Dockerfile: hasDockerfile})
		if !hasDockerfile {
			continue
		}
		if res.Config.Projects == nil {
			res.Config.Projects = map[string]*config.Project{}
		}
		res.Config.Projects[p.Name] = &config.Project{Images: []config.Image{{Name: p.Name}}}
	}

	if err := config.Save(configPath, res.Config); err != nil {
		return nil, err
	}
	if err := UpdateGitignore(root, Names(projects)); err != nil {
		return nil, err
	}
	return res, nil
}
