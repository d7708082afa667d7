package deps

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-version"
)

func TestPlanAlign(t *testing.T) {
	mismatches := Packages{
		"requests": {"api": ">=2.28.0", "worker": ">=2.31.0", "cli": ""},
		"django":   {"api": "==4.2", "worker": ">=4.0"},
		"numpy":    {"api": ">=1.24,<2", "worker": ">=1.26"},
		"httpx":    {"api": "", "worker": ""},
	}

	got := PlanAlign(mismatches)
	want := []Plan{
		{Package: "django", Skipped: true, Reason: ReasonComplexRanges},
		{Package: "httpx", Skipped: true, Reason: ReasonComplexRanges},
		{Package: "numpy", Skipped: true, Reason: ReasonComplexRanges},
		{
			Package: "requests",
			Target:  ">=2.31.0",
			Edits: []Edit{
				{Project: "api", From: ">=2.28.0", To: ">=2.31.0"},
				{Project: "cli", From: "", To: ">=2.31.0"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlanAlign mismatch (-want +got):\n%s", diff)
	}
}

// fakeOracle serves versions from a map; missing packages fail.
type fakeOracle struct {
	versions map[string]string
	asked    []string
}

func (f *fakeOracle) Latest(_ context.Context, name string) (*version.Version, error) {
	f.asked = append(f.asked, name)
	v, ok := f.versions[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return version.NewVersion(v)
}

func TestFindOutdated(t *testing.T) {
	pkgs := Packages{
		"requests": {"api": ">=2.28.0", "worker": ">=2.31.0"},
		"numpy":    {"api": ">=1.24,<2"},
		"click":    {"api": ">=8.1"},
		"ghost":    {"api": ">=1.0"},
		"httpx":    {"api": ""},
		"flask":    {"api": "==3.0"},
	}
	oracle := &fakeOracle{versions: map[string]string{
		"requests": "2.32.3",
		"numpy":    "2.1.0",
		"click":    "8.1",
	}}

	var failed []string
	got, err := FindOutdated(context.Background(), pkgs, oracle, func(pkg string, latest *version.Version, err error) {
		if err != nil {
			failed = append(failed, pkg)
			if latest != nil {
				t.Errorf("latest should be nil on failure for %s", pkg)
			}
		}
	})
	if err != nil {
		t.Fatalf("FindOutdated() error: %v", err)
	}

	// Packages without a lower bound are never looked up.
	if diff := cmp.Diff([]string{"click", "ghost", "numpy", "requests"}, oracle.asked); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ghost"}, failed); diff != "" {
		t.Errorf("failed lookups mismatch (-want +got):\n%s", diff)
	}

	if len(got) != 2 {
		t.Fatalf("got %d outdated packages, want 2: %+v", len(got), got)
	}
	if got[0].Package != "numpy" || got[0].Simple {
		t.Errorf("got[0] = %+v, want complex numpy", got[0])
	}
	if got[1].Package != "requests" || !got[1].Simple {
		t.Errorf("got[1] = %+v, want simple requests", got[1])
	}
	if got[1].CurrentMin.String() != "2.31.0" || got[1].Latest.String() != "2.32.3" {
		t.Errorf("requests versions = %s → %s", got[1].CurrentMin, got[1].Latest)
	}
}

func TestFindOutdated_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := &fakeOracle{versions: map[string]string{"requests": "9.0"}}
	_, err := FindOutdated(ctx, Packages{"requests": {"api": ">=1.0"}}, oracle, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(oracle.asked) != 0 {
		t.Errorf("oracle asked %v after cancellation", oracle.asked)
	}
}

func TestPlanUpgrade(t *testing.T) {
	pkgs := Packages{
		"requests": {"api": ">=2.28.0", "worker": ">=2.32.3", "cli": ""},
		"numpy":    {"api": ">=1.24,<2"},
	}
	outdated := []Outdated{
		{Package: "requests", CurrentMin: version.Must(version.NewVersion("2.32.3")), Latest: version.Must(version.NewVersion("2.32.3")), Simple: true},
		{Package: "numpy", CurrentMin: version.Must(version.NewVersion("1.24")), Latest: version.Must(version.NewVersion("2.1.0"))},
	}

	got := PlanUpgrade(pkgs, outdated)
	want := []Plan{
		{Package: "numpy", Skipped: true, Reason: ReasonComplexSpecifier},
		{
			Package: "requests",
			Target:  ">=2.32.3",
			Edits: []Edit{
				{Project: "api", From: ">=2.28.0", To: ">=2.32.3"},
				{Project: "cli", From: "", To: ">=2.32.3"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlanUpgrade mismatch (-want +got):\n%s", diff)
	}
}
