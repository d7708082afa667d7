// Package metadata defines the packaging record shared by every source
// extractor and merges records from several sources by priority.
package metadata

import (
	"fmt"
	"slices"
)

// Source identifies the file a record was extracted from.
type Source string

const (
	SourcePyproject    Source = "pyproject.toml"
	SourceSetupCfg     Source = "setup.cfg"
	SourceSetupPy      Source = "setup.py"
	SourceRequirements Source = "requirements.txt"
)

// Priority lists sources from highest to lowest priority. An existing
// pyproject.toml always comes first because it records deliberate choices.
var Priority = []Source{SourcePyproject, SourceSetupCfg, SourceSetupPy, SourceRequirements}

// Rank returns the position of s in Priority, or len(Priority) if unknown.
func Rank(s Source) int {
	if i := slices.Index(Priority, s); i >= 0 {
		return i
	}
	return len(Priority)
}

// Project is the packaging intent of one project as seen by one or more
// sources. Nil scalar fields are absent; an empty string is present.
type Project struct {
	Name                 *string
	Version              *string
	Description          *string
	RequiresPython       *string
	Dependencies         []string
	OptionalDependencies map[string][]string
	EntryPoints          map[string]string
	Sources              []Source
	Warnings             []string
}

// New returns an empty record tagged with src.
func New(src Source) *Project {
	return &Project{
		OptionalDependencies: map[string][]string{},
		EntryPoints:          map[string]string{},
		Sources:              []Source{src},
	}
}

// Warnf records a warning prefixed with the record's first source.
func (p *Project) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(p.Sources) > 0 {
		msg = string(p.Sources[0]) + ": " + msg
	}
	p.Warnings = append(p.Warnings, msg)
}

// Str returns a pointer to s, for filling optional fields.
func Str(s string) *string { return &s }

// Deref returns the value of s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
