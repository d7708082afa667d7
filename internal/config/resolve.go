package config

import (
	"fmt"
	"slices"
	"strings"
)

// AllSelector selects every project regardless of groups.
const AllSelector = "all"

// ResolveProjects expands project selectors into project names. A selector
// is either a project name or "@group". It returns nil, meaning every
// project, when there are no selectors and no default group, or when any
// selector is "@all". Otherwise the result is non-nil, even when an empty
// group selects nothing. Names keep the position of their first occurrence.
func (w *Workspace) ResolveProjects(selectors []string) ([]string, error) {
	if slices.Contains(selectors, "@"+AllSelector) {
		return nil, nil
	}
	if len(selectors) == 0 {
		if w.Groups.Default == "" {
			return nil, nil
		}
		selectors = []string{"@" + w.Groups.Default}
	}

	seen := make(map[string]bool)
	names := []string{}
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for _, sel := range selectors {
		group, isGroup := strings.CutPrefix(sel, "@")
		if !isGroup {
			add(sel)
			continue
		}
		members, ok := w.Groups.Sets[group]
		if !ok {
			return nil, fmt.Errorf("unknown group: %s", group)
		}
		for _, m := range members {
			add(m)
		}
	}
	return names, nil
}
