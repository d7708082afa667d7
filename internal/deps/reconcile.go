package deps

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/fbkclanna/workman/internal/specifier"
)

// Skip reasons reported on plans that cannot be applied automatically.
const (
	ReasonComplexRanges    = "has exact pins or complex ranges"
	ReasonComplexSpecifier = "complex specifier"
)

// Edit changes the specifier of one package in one project.
type Edit struct {
	Project string
	From    string
	To      string
}

// Plan is the reconciliation decision for one package.
type Plan struct {
	Package string
	Target  string
	Edits   []Edit
	Skipped bool
	Reason  string
}

// PlanAlign computes, for each mismatched package, the highest lower bound
// across its projects and an edit for every project not already there.
// Packages with any pin, upper bound or other complex range are skipped.
func PlanAlign(mismatches Packages) []Plan {
	plans := make([]Plan, 0, len(mismatches))
	for _, name := range mismatches.Names() {
		projects := mismatches[name]
		target, ok := specifier.HighestMinimum(projects)
		if !ok {
			plans = append(plans, Plan{Package: name, Skipped: true, Reason: ReasonComplexRanges})
			continue
		}
		plan := Plan{Package: name, Target: target}
		for _, proj := range slices.Sorted(maps.Keys(projects)) {
			if spec := projects[proj]; spec != target {
				plan.Edits = append(plan.Edits, Edit{Project: proj, From: spec, To: target})
			}
		}
		plans = append(plans, plan)
	}
	return plans
}

// Oracle reports the latest published version of a package.
type Oracle interface {
	Latest(ctx context.Context, name string) (*version.Version, error)
}

// Outdated describes a package whose newest release is above every lower
// bound declared in the workspace.
type Outdated struct {
	Package    string
	CurrentMin *version.Version
	Latest     *version.Version
	// Simple is true when every specifier of the package is a plain lower
	// bound, so it can be upgraded automatically.
	Simple bool
}

// Observer is told the outcome of each lookup. latest is nil when err is
// set.
type Observer func(pkg string, latest *version.Version, err error)

// FindOutdated looks up every package that has a lower bound somewhere in
// the workspace, in name order. A failed lookup is reported to observe and
// the package is left out; the batch carries on. Only cancellation of ctx
// stops it early.
func FindOutdated(ctx context.Context, pkgs Packages, oracle Oracle, observe Observer) ([]Outdated, error) {
	var out []Outdated
	for _, name := range pkgs.Names() {
		specs := pkgs[name]
		current := specifier.MaxMinimum(specs)
		if current == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		latest, err := oracle.Latest(ctx, name)
		if observe != nil {
			observe(name, latest, err)
		}
		if err != nil {
			continue
		}
		if latest.GreaterThan(current) {
			out = append(out, Outdated{
				Package:    name,
				CurrentMin: current,
				Latest:     latest,
				Simple:     specifier.AllSimple(specs),
			})
		}
	}
	return out, nil
}

// PlanUpgrade raises the lower bound of each outdated package to its
// latest release. Projects whose bound is already at or above the latest
// release are left alone; packages with complex specifiers are skipped.
func PlanUpgrade(pkgs Packages, outdated []Outdated) []Plan {
	sorted := slices.Clone(outdated)
	slices.SortFunc(sorted, func(a, b Outdated) int { return strings.Compare(a.Package, b.Package) })

	plans := make([]Plan, 0, len(sorted))
	for _, o := range sorted {
		if !o.Simple {
			plans = append(plans, Plan{Package: o.Package, Skipped: true, Reason: ReasonComplexSpecifier})
			continue
		}
		target := specifier.AtLeast(o.Latest)
		plan := Plan{Package: o.Package, Target: target}
		projects := pkgs[o.Package]
		for _, proj := range slices.Sorted(maps.Keys(projects)) {
			spec := projects[proj]
			if cur := specifier.Minimum(spec); cur != nil && !cur.LessThan(o.Latest) {
				continue
			}
			plan.Edits = append(plan.Edits, Edit{Project: proj, From: spec, To: target})
		}
		plans = append(plans, plan)
	}
	return plans
}
