package pyproject

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestChange_Diff(t *testing.T) {
	c := &Change{
		Project: "api",
		Before:  "[project]\nname = \"api\"\nversion = \"0.1.0\"\n",
		After:   "[project]\nname = \"api\"\nversion = \"0.2.0\"\n",
	}
	if !c.Changed() {
		t.Fatal("Changed() = false")
	}
	diff := c.Diff()
	for _, want := range []string{"--- a/api/pyproject.toml", "+++ b/api/pyproject.toml", "-version = \"0.1.0\"", "+version = \"0.2.0\""} {
		if !strings.Contains(diff, want) {
			t.Errorf("Diff() missing %q:\n%s", want, diff)
		}
	}
}

func TestChange_DiffNewFile(t *testing.T) {
	c := &Change{Project: "api", After: "[project]\n"}
	if diff := c.Diff(); !strings.Contains(diff, "--- /dev/null") || !strings.Contains(diff, "+[project]") {
		t.Errorf("Diff() = %q", diff)
	}
}

func TestChange_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	c := &Change{Project: "api", Path: path, After: "[project]\nname = \"api\"\n"}
	if err := c.Write(); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if name := String(Table(doc, "project"), "name"); name == nil || *name != "api" {
		t.Errorf("name = %v, want api", name)
	}
}

func TestChange_unchanged(t *testing.T) {
	c := &Change{Before: "x", After: "x"}
	if c.Changed() {
		t.Error("Changed() = true for identical text")
	}
}
