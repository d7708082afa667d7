package extract

import (
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/fbkclanna/workman/internal/metadata"
)

var cfgOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	InsensitiveKeys:            true,
	SkipUnrecognizableLines:    true,
}

// SetupCfg reads the declarative setuptools configuration in setup.cfg.
func SetupCfg(path string) *metadata.Project {
	data, err := os.ReadFile(path) //nolint:gosec // path is a project file inside the workspace
	if err != nil {
		meta := metadata.New(metadata.SourceSetupCfg)
		meta.Warnf("could not read (%v)", err)
		return meta
	}
	return ParseSetupCfg(data)
}

// ParseSetupCfg extracts packaging metadata from setup.cfg content.
func ParseSetupCfg(data []byte) *metadata.Project {
	meta := metadata.New(metadata.SourceSetupCfg)

	cfg, err := ini.LoadSources(cfgOptions, data)
	if err != nil {
		meta.Warnf("could not parse (%v)", err)
		return meta
	}

	if sec, err := cfg.GetSection("metadata"); err == nil {
		meta.Name = keyValue(sec, "name")
		meta.Version = keyValue(sec, "version")
		meta.Description = keyValue(sec, "description")
	}

	if sec, err := cfg.GetSection("options"); err == nil {
		meta.RequiresPython = keyValue(sec, "python_requires")
		if raw := keyValue(sec, "install_requires"); raw != nil {
			meta.Dependencies = lines(*raw)
		}
	}

	if sec, err := cfg.GetSection("options.extras_require"); err == nil {
		for _, key := range sec.Keys() {
			if deps := lines(key.Value()); len(deps) > 0 {
				meta.OptionalDependencies[key.Name()] = deps
			}
		}
	}

	if sec, err := cfg.GetSection("options.entry_points"); err == nil {
		if raw := keyValue(sec, "console_scripts"); raw != nil {
			for _, line := range lines(*raw) {
				if name, target, found := strings.Cut(line, "="); found {
					meta.EntryPoints[strings.TrimSpace(name)] = strings.TrimSpace(target)
				}
			}
		}
	}
	return meta
}

func keyValue(sec *ini.Section, name string) *string {
	if !sec.HasKey(name) {
		return nil
	}
	v := sec.Key(name).Value()
	return &v
}

// lines splits a multi-line value into its trimmed, non-empty lines.
func lines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
