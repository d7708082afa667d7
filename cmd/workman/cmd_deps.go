package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-hclog"
	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/workman/internal/deps"
	"github.com/fbkclanna/workman/internal/pypi"
	"github.com/fbkclanna/workman/internal/pyproject"
	"github.com/fbkclanna/workman/internal/specifier"
	"github.com/fbkclanna/workman/internal/ui"
	"github.com/fbkclanna/workman/internal/workspace"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [projects...]",
		Short: "Report dependencies whose version specifiers disagree across projects",
		Long: `Report dependencies whose version specifiers disagree across projects.

Projects are directory names or @group selectors from .workman.yaml. With
none given, the default group is used, or every project when there is no
default group.`,
		Args: cobra.ArbitraryArgs,
		RunE: runDeps,
	}
	cmd.AddCommand(
		newDepsAlignCmd(),
		newDepsOutdatedCmd(),
		newDepsUpgradeCmd(),
	)
	return cmd
}

func newDepsAlignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align [projects...]",
		Short: "Raise mismatched lower bounds to the highest one in the workspace",
		Args:  cobra.ArbitraryArgs,
		RunE:  runDepsAlign,
	}
	cmd.Flags().Bool("dry-run", false, "Show the changes as a diff without writing")
	return cmd
}

func newDepsOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outdated [projects...]",
		Short: "List dependencies with a newer release on PyPI",
		Args:  cobra.ArbitraryArgs,
		RunE:  runDepsOutdated,
	}
}

func newDepsUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [projects...]",
		Short: "Raise lower bounds to the latest release on PyPI",
		Args:  cobra.ArbitraryArgs,
		RunE:  runDepsUpgrade,
	}
	cmd.Flags().Bool("dry-run", false, "Show the changes as a diff without writing")
	cmd.Flags().BoolP("yes", "y", false, "Write without asking for confirmation")
	return cmd
}

// scanProjects selects the projects named in args and scans their
// manifests.
func scanProjects(cmd *cobra.Command, args []string, log hclog.Logger) ([]workspace.Project, deps.Packages, error) {
	_, projects, err := selectProjects(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	pkgs := deps.Scan(projects, log.Named("deps"))
	log.Debug("scanned workspace", "projects", len(projects), "packages", len(pkgs))
	return projects, pkgs, nil
}

func runDeps(cmd *cobra.Command, args []string) error {
	_, pkgs, err := scanProjects(cmd, args, newLogger(cmd))
	if err != nil {
		return err
	}
	mismatches := deps.FindMismatches(pkgs)

	out := cmd.OutOrStdout()
	if len(mismatches) == 0 {
		_, _ = fmt.Fprintln(out, "All dependency versions are aligned.")
		return nil
	}

	st := ui.NewStyles(out)
	_, _ = fmt.Fprintf(out, "Found %d package(s) with version mismatches:\n\n", len(mismatches))
	for _, name := range mismatches.Names() {
		_, _ = fmt.Fprintf(out, "%s:\n", st.Bold.Render(name))
		specs := mismatches[name]
		tbl := ui.Indented(out, "  ")
		for _, proj := range slices.Sorted(maps.Keys(specs)) {
			spec := specs[proj]
			if spec == "" {
				spec = "(any)"
			}
			tbl.Row(proj, spec)
		}
		if err := tbl.Flush(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

func runDepsAlign(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	projects, pkgs, err := scanProjects(cmd, args, newLogger(cmd))
	if err != nil {
		return err
	}
	mismatches := deps.FindMismatches(pkgs)
	if len(mismatches) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All dependency versions are aligned.")
		return nil
	}

	plans := deps.PlanAlign(mismatches)
	describe := func(p deps.Plan) string { return "aligning to " + p.Target }
	return applyPlans(cmd, projects, plans, describe, applyOptions{dryRun: dryRun, assumeYes: true})
}

// lookupOutdated queries the index for every package with a lower bound,
// printing one progress line per lookup.
func lookupOutdated(cmd *cobra.Command, pkgs deps.Packages, log hclog.Logger) ([]deps.Outdated, error) {
	out := cmd.OutOrStdout()
	st := ui.NewStyles(out)

	total := 0
	for _, specs := range pkgs {
		if specifier.MaxMinimum(specs) != nil {
			total++
		}
	}
	progress := ui.NewProgress(out, total)
	progress.Log("Checking %d package(s) on PyPI...", total)

	client := pypi.NewClient(pypi.WithLogger(log.Named("pypi")))
	return deps.FindOutdated(cmd.Context(), pkgs, client, func(pkg string, latest *goversion.Version, err error) {
		if err != nil {
			log.Debug("lookup failed", "package", pkg, "error", err)
			progress.Done("checking "+pkg, st.Failed.Render("failed"))
			return
		}
		progress.Done("checking "+pkg, latest.Original())
	})
}

func runDepsOutdated(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	_, pkgs, err := scanProjects(cmd, args, log)
	if err != nil {
		return err
	}
	outdated, err := lookupOutdated(cmd, pkgs, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(outdated) == 0 {
		_, _ = fmt.Fprintln(out, "\nAll packages are up to date.")
		return nil
	}

	st := ui.NewStyles(out)
	_, _ = fmt.Fprintf(out, "\n%d package(s) have newer versions on PyPI:\n\n", len(outdated))
	for _, o := range outdated {
		_, _ = fmt.Fprintf(out, "%s:\n", st.Bold.Render(o.Package))
		_, _ = fmt.Fprintf(out, "  current  %s\n", specifier.AtLeast(o.CurrentMin))
		if o.Simple {
			_, _ = fmt.Fprintf(out, "  latest   %s\n", o.Latest.Original())
		} else {
			_, _ = fmt.Fprintf(out, "  latest   %s  (%s)\n", o.Latest.Original(), st.Skipped.Render(deps.ReasonComplexSpecifier))
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

func runDepsUpgrade(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	log := newLogger(cmd)
	projects, pkgs, err := scanProjects(cmd, args, log)
	if err != nil {
		return err
	}
	outdated, err := lookupOutdated(cmd, pkgs, log)
	if err != nil {
		return err
	}
	if len(outdated) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nAll packages are up to date.")
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	current := make(map[string]*goversion.Version, len(outdated))
	for _, o := range outdated {
		current[o.Package] = o.CurrentMin
	}
	plans := deps.PlanUpgrade(pkgs, outdated)
	describe := func(p deps.Plan) string {
		return specifier.AtLeast(current[p.Package]) + " → " + p.Target
	}
	return applyPlans(cmd, projects, plans, describe, applyOptions{dryRun: dryRun, assumeYes: yes, confirm: true})
}

type applyOptions struct {
	dryRun    bool
	confirm   bool
	assumeYes bool
}

// applyPlans prints each plan, rewrites the affected manifests in memory
// and then either shows the result as a diff or writes it.
func applyPlans(cmd *cobra.Command, projects []workspace.Project, plans []deps.Plan, describe func(deps.Plan) string, opts applyOptions) error {
	out := cmd.OutOrStdout()
	st := ui.NewStyles(out)

	rw := deps.NewRewriter(projects)
	for _, plan := range plans {
		if plan.Skipped {
			_, _ = fmt.Fprintf(out, "  %s: %s (%s)\n", st.Bold.Render(plan.Package), st.Skipped.Render("skipped"), plan.Reason)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s: %s\n", st.Bold.Render(plan.Package), describe(plan))
		if _, err := rw.Apply(plan); err != nil {
			return err
		}
	}

	changes := rw.Changes()
	if opts.dryRun {
		for _, c := range changes {
			_, _ = fmt.Fprintf(out, "\n%s", c.Diff())
		}
		return nil
	}
	if len(changes) == 0 {
		return nil
	}
	if opts.confirm {
		files := make([]string, len(changes))
		for i, c := range changes {
			files[i] = c.Project + "/" + pyproject.FileName
		}
		ok, err := confirm(cmd.ErrOrStderr(), fmt.Sprintf("Update %d %s file(s)?", len(changes), pyproject.FileName), files, opts.assumeYes)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}
	for _, c := range changes {
		if err := c.Write(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "    %s %s/%s\n", st.Updated.Render("updated"), c.Project, pyproject.FileName)
	}
	return nil
}
