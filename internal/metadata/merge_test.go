package metadata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func record(src Source, fill func(p *Project)) *Project {
	p := New(src)
	fill(p)
	return p
}

func TestMerge_priorityOrderScalars(t *testing.T) {
	high := record(SourceSetupCfg, func(p *Project) { p.Name = Str("from-cfg"); p.Version = Str("2.0") })
	low := record(SourceSetupPy, func(p *Project) { p.Name = Str("from-py"); p.Version = Str("1.0") })

	merged := Merge([]*Project{high, low})
	if Deref(merged.Name) != "from-cfg" {
		t.Errorf("name = %q, want %q", Deref(merged.Name), "from-cfg")
	}
	if Deref(merged.Version) != "2.0" {
		t.Errorf("version = %q, want %q", Deref(merged.Version), "2.0")
	}
}

func TestMerge_emptyStringIsPresent(t *testing.T) {
	high := record(SourceSetupCfg, func(p *Project) { p.Description = Str("") })
	low := record(SourceSetupPy, func(p *Project) { p.Description = Str("desc") })

	merged := Merge([]*Project{high, low})
	if merged.Description == nil || *merged.Description != "" {
		t.Errorf("description = %v, want present empty string", merged.Description)
	}
}

func TestMerge_fillsGaps(t *testing.T) {
	high := record(SourceSetupCfg, func(p *Project) { p.Name = Str("myapp") })
	low := record(SourceSetupPy, func(p *Project) { p.Version = Str("1.0"); p.Description = Str("desc") })

	merged := Merge([]*Project{high, low})
	if Deref(merged.Name) != "myapp" || Deref(merged.Version) != "1.0" || Deref(merged.Description) != "desc" {
		t.Errorf("unexpected merge result: name=%q version=%q description=%q",
			Deref(merged.Name), Deref(merged.Version), Deref(merged.Description))
	}
	if merged.RequiresPython != nil {
		t.Errorf("requires-python = %q, want nil", *merged.RequiresPython)
	}
}

func TestMerge_dependenciesHighestNonEmptyWins(t *testing.T) {
	empty := record(SourcePyproject, func(*Project) {})
	high := record(SourceSetupCfg, func(p *Project) { p.Dependencies = []string{"click>=8.0"} })
	low := record(SourceRequirements, func(p *Project) { p.Dependencies = []string{"click>=7.0", "flask"} })

	merged := Merge([]*Project{empty, high, low})
	if diff := cmp.Diff([]string{"click>=8.0"}, merged.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_optionalDependenciesPerGroup(t *testing.T) {
	high := record(SourceSetupCfg, func(p *Project) {
		p.OptionalDependencies = map[string][]string{"dev": {"pytest"}}
	})
	low := record(SourceSetupPy, func(p *Project) {
		p.OptionalDependencies = map[string][]string{"dev": {"ruff"}, "docs": {"sphinx"}}
	})

	merged := Merge([]*Project{high, low})
	want := map[string][]string{"dev": {"pytest"}, "docs": {"sphinx"}}
	if diff := cmp.Diff(want, merged.OptionalDependencies); diff != "" {
		t.Errorf("optional dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_entryPointsPerName(t *testing.T) {
	high := record(SourcePyproject, func(p *Project) { p.EntryPoints = map[string]string{"app": "app.cli:main"} })
	low := record(SourceSetupPy, func(p *Project) {
		p.EntryPoints = map[string]string{"app": "old.cli:main", "tool": "app.tool:run"}
	})

	merged := Merge([]*Project{high, low})
	want := map[string]string{"app": "app.cli:main", "tool": "app.tool:run"}
	if diff := cmp.Diff(want, merged.EntryPoints); diff != "" {
		t.Errorf("entry points mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_sourcesAndWarningsAggregated(t *testing.T) {
	a := record(SourceSetupPy, func(p *Project) { p.Warnf("warn1") })
	b := record(SourceSetupCfg, func(p *Project) { p.Warnf("warn2") })

	merged := Merge([]*Project{b, a})
	if diff := cmp.Diff([]Source{SourceSetupCfg, SourceSetupPy}, merged.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
	want := []string{"setup.cfg: warn2", "setup.py: warn1"}
	if diff := cmp.Diff(want, merged.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByPriority(t *testing.T) {
	records := []*Project{New(SourceRequirements), New(SourceSetupPy), New(SourcePyproject), New(SourceSetupCfg)}
	SortByPriority(records)

	var got []Source
	for _, r := range records {
		got = append(got, r.Sources[0])
	}
	if diff := cmp.Diff(Priority, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
