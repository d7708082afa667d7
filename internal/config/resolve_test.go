package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testWorkspace() *Workspace {
	return &Workspace{
		Projects: map[string]*Project{"a": {}, "b": {}, "c": {}, "d": {}},
		Groups: Groups{Sets: map[string][]string{
			"frontend": {"a", "b"},
			"backend":  {"c", "d"},
		}},
	}
}

func TestResolveProjects(t *testing.T) {
	tests := []struct {
		name         string
		defaultGroup string
		selectors    []string
		want         []string
	}{
		{"no args no default means all", "", nil, nil},
		{"no args uses default group", "frontend", nil, []string{"a", "b"}},
		{"at all means all", "", []string{"@all"}, nil},
		{"at all mixed still all", "", []string{"a", "@all"}, nil},
		{"at all wins over unknown group", "", []string{"@nope", "@all"}, nil},
		{"expand group", "", []string{"@frontend"}, []string{"a", "b"}},
		{"expand multiple groups", "", []string{"@frontend", "@backend"}, []string{"a", "b", "c", "d"}},
		{"mix names and groups", "", []string{"c", "@frontend"}, []string{"c", "a", "b"}},
		{"deduplicates", "", []string{"a", "@frontend"}, []string{"a", "b"}},
		{"explicit args ignore default", "backend", []string{"a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := testWorkspace()
			ws.Groups.Default = tt.defaultGroup
			got, err := ws.ResolveProjects(tt.selectors)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveProjects(%v) mismatch (-want +got):\n%s", tt.selectors, diff)
			}
		})
	}
}

func TestResolveProjects_unknownGroup(t *testing.T) {
	_, err := testWorkspace().ResolveProjects([]string{"@nope"})
	if err == nil || err.Error() != "unknown group: nope" {
		t.Errorf("error = %v, want %q", err, "unknown group: nope")
	}
}

func TestResolveProjects_emptyGroup(t *testing.T) {
	ws := testWorkspace()
	ws.Groups.Sets["empty"] = []string{}
	got, err := ws.ResolveProjects([]string{"@empty"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ResolveProjects(@empty) = %#v, want empty non-nil", got)
	}
}
