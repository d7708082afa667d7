package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/workman/internal/metadata"
)

// pip options that carry no dependency information.
var ignoredOptions = []string{
	"-i", "--index-url", "--extra-index-url", "--find-links", "-f",
	"--no-binary", "--only-binary", "--trusted-host", "--pre", "--no-deps",
	"-c", "--constraint",
}

// Requirements reads a requirements file, following -r includes relative
// to the including file. Each file is read at most once, so include cycles
// terminate.
func Requirements(path string) *metadata.Project {
	meta := metadata.New(metadata.SourceRequirements)
	readRequirements(meta, path, map[string]bool{})
	return meta
}

func readRequirements(meta *metadata.Project, path string, visited map[string]bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if visited[abs] {
		return
	}
	visited[abs] = true

	data, err := os.ReadFile(path) //nolint:gosec // path is a project file inside the workspace
	if err != nil {
		meta.Warnf("could not read %s (%v)", filepath.Base(path), err)
		return
	}

	for _, raw := range strings.Split(string(data), "\n") {
		line, _, _ := strings.Cut(raw, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if include, ok := includeTarget(line); ok {
			if include != "" {
				if !filepath.IsAbs(include) {
					include = filepath.Join(filepath.Dir(path), include)
				}
				readRequirements(meta, include, visited)
			}
			continue
		}
		if hasOption(line, "-e", "--editable") {
			meta.Warnf("editable dep skipped: %s", line)
			continue
		}
		if hasOption(line, ignoredOptions...) {
			continue
		}
		meta.Dependencies = append(meta.Dependencies, line)
	}
}

// includeTarget reports whether line is a -r / --requirement include and
// returns the referenced file.
func includeTarget(line string) (string, bool) {
	for _, opt := range []string{"--requirement", "-r"} {
		if !hasOption(line, opt) {
			continue
		}
		rest := strings.TrimPrefix(line, opt)
		rest = strings.TrimPrefix(rest, "=")
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// hasOption reports whether line starts with one of opts used as an option,
// followed by whitespace, "=", an attached value or the end of the line.
func hasOption(line string, opts ...string) bool {
	for _, opt := range opts {
		if !strings.HasPrefix(line, opt) {
			continue
		}
		if len(line) == len(opt) {
			return true
		}
		next := line[len(opt)]
		// "--pre" must not match "--prefer-binary"; short options accept
		// an attached value as in "-rbase.txt".
		if next == ' ' || next == '\t' || next == '=' || !strings.HasPrefix(opt, "--") {
			return true
		}
	}
	return false
}
