// Package pyproject reads, writes, synthesizes and edits pyproject.toml
// manifests.
package pyproject

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the manifest file name inside a project directory.
const FileName = "pyproject.toml"

// Document is a decoded manifest. Tables are map[string]any and arrays
// are []any, as produced by the TOML decoder.
type Document = map[string]any

// Load reads and decodes a manifest file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a project manifest inside the workspace
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes manifest content.
func Parse(data []byte) (Document, error) {
	doc := Document{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return doc, nil
}

// Encode renders doc as TOML.
func Encode(doc Document) ([]byte, error) {
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return data, nil
}

// Save encodes doc and writes it to path, replacing any existing file.
func Save(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // manifest needs to be readable
		return fmt.Errorf("writing %s: %w", FileName, err)
	}
	return nil
}

// DeepMerge overlays generated onto existing. Values already present in
// existing always win; nested tables are merged recursively while arrays
// are replaced or kept whole.
func DeepMerge(existing, generated Document) Document {
	out := maps.Clone(existing)
	if out == nil {
		out = Document{}
	}
	for key, gv := range generated {
		ev, ok := out[key]
		if !ok {
			out[key] = gv
			continue
		}
		em, eok := ev.(map[string]any)
		gm, gok := gv.(map[string]any)
		if eok && gok {
			out[key] = DeepMerge(em, gm)
		}
	}
	return out
}

// Table returns the table stored under key, or nil.
func Table(doc Document, key string) map[string]any {
	t, _ := doc[key].(map[string]any)
	return t
}

// String returns the string stored under key, or nil when it is absent or
// not a string.
func String(tbl map[string]any, key string) *string {
	s, ok := tbl[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// StringList returns the string elements of an array value. Non-string
// elements (such as include-group tables) are skipped.
func StringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return slices.Clone(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// DependencyLists holds every dependency declaration of a manifest.
type DependencyLists struct {
	Main     []string
	Optional map[string][]string
	Groups   map[string][]string
}

// All returns main, then optional groups, then dependency groups, with
// groups visited in name order.
func (d DependencyLists) All() []string {
	all := slices.Clone(d.Main)
	for _, name := range slices.Sorted(maps.Keys(d.Optional)) {
		all = append(all, d.Optional[name]...)
	}
	for _, name := range slices.Sorted(maps.Keys(d.Groups)) {
		all = append(all, d.Groups[name]...)
	}
	return all
}

// Dependencies collects [project].dependencies,
// [project.optional-dependencies] and [dependency-groups].
func Dependencies(doc Document) DependencyLists {
	project := Table(doc, "project")
	lists := DependencyLists{
		Main:     StringList(project["dependencies"]),
		Optional: stringListTable(Table(project, "optional-dependencies")),
		Groups:   stringListTable(Table(doc, "dependency-groups")),
	}
	return lists
}

func stringListTable(tbl map[string]any) map[string][]string {
	out := make(map[string][]string, len(tbl))
	for name, v := range tbl {
		if list := StringList(v); list != nil {
			out[name] = list
		}
	}
	return out
}
