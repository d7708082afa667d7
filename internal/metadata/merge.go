package metadata

import (
	"maps"
	"slices"
	"sort"
)

// Merge combines records ordered highest priority first.
//
// Scalars take the first non-nil value, the main dependency list is taken
// whole from the first source that has one, and extras and entry points
// are merged per key with higher priority winning. Sources and warnings
// are concatenated in order.
func Merge(sources []*Project) *Project {
	merged := &Project{
		Name:                 firstPresent(sources, func(p *Project) *string { return p.Name }),
		Version:              firstPresent(sources, func(p *Project) *string { return p.Version }),
		Description:          firstPresent(sources, func(p *Project) *string { return p.Description }),
		RequiresPython:       firstPresent(sources, func(p *Project) *string { return p.RequiresPython }),
		Dependencies:         slices.Clone(firstNonEmpty(sources, func(p *Project) []string { return p.Dependencies })),
		OptionalDependencies: overlay(sources, func(p *Project) map[string][]string { return p.OptionalDependencies }),
		EntryPoints:          overlay(sources, func(p *Project) map[string]string { return p.EntryPoints }),
	}
	for _, src := range sources {
		merged.Sources = append(merged.Sources, src.Sources...)
		merged.Warnings = append(merged.Warnings, src.Warnings...)
	}
	return merged
}

// firstPresent returns the first non-nil field value in priority order.
func firstPresent[T any](sources []*Project, field func(*Project) *T) *T {
	for _, src := range sources {
		if v := field(src); v != nil {
			return v
		}
	}
	return nil
}

// firstNonEmpty returns the first non-empty list in priority order.
func firstNonEmpty[T any](sources []*Project, field func(*Project) []T) []T {
	for _, src := range sources {
		if v := field(src); len(v) > 0 {
			return v
		}
	}
	return nil
}

// overlay merges maps by key, applying sources lowest priority first so
// higher priority values overwrite.
func overlay[V any](sources []*Project, field func(*Project) map[string]V) map[string]V {
	out := map[string]V{}
	for _, src := range slices.Backward(sources) {
		maps.Copy(out, field(src))
	}
	return out
}

// SortByPriority orders records by the rank of their first source. The
// sort is stable so records of equal rank keep their relative order.
func SortByPriority(records []*Project) {
	sort.SliceStable(records, func(i, j int) bool {
		return rank(records[i]) < rank(records[j])
	})
}

func rank(p *Project) int {
	if len(p.Sources) == 0 {
		return len(Priority)
	}
	return Rank(p.Sources[0])
}
