package workspace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fbkclanna/workman/internal/config"
	"github.com/fbkclanna/workman/internal/testutil"
)

func TestLoad(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		config.FileName: "latest_tag: stable\ngroups:\n  web: [frontend]\n",
		"frontend/":     "",
	})

	ctx, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !ctx.HasConfig {
		t.Error("HasConfig should be true when .workman.yaml exists")
	}
	if ctx.Config.LatestTag != "stable" {
		t.Errorf("Config.LatestTag = %q, want %q", ctx.Config.LatestTag, "stable")
	}
	if ctx.ConfigPath != filepath.Join(ctx.Root, config.FileName) {
		t.Errorf("ConfigPath = %q, unexpected", ctx.ConfigPath)
	}
}

func TestLoad_withoutConfig(t *testing.T) {
	ctx, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ctx.HasConfig {
		t.Error("HasConfig should be false without .workman.yaml")
	}
	if ctx.Config == nil || ctx.Config.LatestTag != config.DefaultLatestTag {
		t.Errorf("Config = %+v, want empty default config", ctx.Config)
	}
}

func TestLoad_invalidConfig(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{config.FileName: ":::invalid: ["})
	if _, err := Load(root); err == nil {
		t.Fatal("Load() should fail with invalid YAML")
	}
}

func TestLoad_notADirectory(t *testing.T) {
	file := testutil.WriteFile(t, t.TempDir(), "file", "x")
	if _, err := Load(file); err == nil {
		t.Fatal("Load() should fail when root is a file")
	}
}

func TestDiscover(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		"b/":          "",
		"a/":          "",
		".git/":       "",
		".venv/":      "",
		"notes.txt":   "x",
		"c/README.md": "x",
	})
	projects, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, Names(projects)); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
	if projects[0].Dir != filepath.Join(root, "a") {
		t.Errorf("Dir = %q, want %q", projects[0].Dir, filepath.Join(root, "a"))
	}
}

func TestProjects(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		config.FileName: "groups:\n  web: [frontend, ghost]\n  api: [backend]\n",
		"frontend/":     "",
		"backend/":      "",
		"shared/":       "",
	})
	ctx, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		selectors []string
		want      []string
	}{
		{"all", nil, []string{"backend", "frontend", "shared"}},
		{"by name", []string{"shared"}, []string{"shared"}},
		{"group skips missing members", []string{"@web"}, []string{"frontend"}},
		{"discovery order", []string{"@web", "@api"}, []string{"backend", "frontend"}},
		{"at all", []string{"shared", "@all"}, []string{"backend", "frontend", "shared"}},
		{"unknown name", []string{"nope"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.Projects(tt.selectors)
			if err != nil {
				t.Fatalf("Projects() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, Names(got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Projects(%v) mismatch (-want +got):\n%s", tt.selectors, diff)
			}
		})
	}

	if _, err := ctx.Projects([]string{"@nope"}); err == nil || !strings.Contains(err.Error(), "unknown group: nope") {
		t.Errorf("error = %v, want unknown group", err)
	}
}

func TestProjects_defaultGroup(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		config.FileName: "groups:\n  core: [a]\n  default_group: core\n",
		"a/":            "",
		"b/":            "",
	})
	ctx, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ctx.Projects(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, Names(got)); diff != "" {
		t.Errorf("Projects(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestInit(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		"api/Dockerfile": "FROM python:3.12\n",
		"lib/setup.py":   "",
		".hidden/":       "",
	})

	res, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	want := []InitProject{{Name: "api", Dockerfile: true}, {Name: "lib"}}
	if diff := cmp.Diff(want, res.Projects); diff != "" {
		t.Errorf("Projects mismatch (-want +got):\n%s", diff)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	wantProjects := map[string]*config.Project{"api": {Images: []config.Image{{Name: "api"}}}}
	if diff := cmp.Diff(wantProjects, cfg.Projects); diff != "" {
		t.Errorf("config projects mismatch (-want +got):\n%s", diff)
	}

	gitignore := testutil.ReadFile(t, filepath.Join(root, ".gitignore"))
	if !strings.Contains(gitignore, "api/\nlib/\n") {
		t.Errorf(".gitignore missing project entries:\n%s", gitignore)
	}
}

func TestInit_existingConfig(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{config.FileName: "", "a/": ""})
	_, err := Init(root)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want already exists", err)
	}
}

func TestInit_noProjects(t *testing.T) {
	_, err := Init(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no subdirectories") {
		t.Errorf("error = %v, want no subdirectories", err)
	}
}

func TestArtifacts(t *testing.T) {
	root := testutil.Workspace(t, map[string]string{
		"app/dist/app-1.0.whl":                    "x",
		"app/build/lib/app/__pycache__/m.pyc":     "x",
		"app/src/app/__pycache__/m.pyc":           "x",
		"app/src/app.egg-info/PKG-INFO":           "x",
		"app/.venv/lib/site-packages/pkg/build/x": "x",
		"app/docs/build":                          "a file, not a directory",
		"lib/build-tools/dist/y":                  "x",
		"lib/build-tools/README":                  "x",
		"dist/README":                             "x",
		".cache/__pycache__/z":                    "x",
	})

	got, err := Artifacts(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join("app", "build"),
		filepath.Join("app", "dist"),
		filepath.Join("app", "src", "app.egg-info"),
		filepath.Join("app", "src", "app", "__pycache__"),
		filepath.Join("lib", "build-tools", "dist"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Artifacts mismatch (-want +got):\n%s", diff)
	}

	if err := RemoveArtifacts(root, got); err != nil {
		t.Fatal(err)
	}
	for _, rel := range got {
		if testutil.Exists(filepath.Join(root, rel)) {
			t.Errorf("%s still exists", rel)
		}
	}
	if !testutil.Exists(filepath.Join(root, "lib", "build-tools", "README")) {
		t.Error("non-artifact file removed")
	}
	if !testutil.Exists(filepath.Join(root, "dist", "README")) {
		t.Error("top-level project directory must not be treated as an artifact")
	}
}
