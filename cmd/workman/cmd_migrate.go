package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/workman/internal/migrate"
	"github.com/fbkclanna/workman/internal/pyproject"
	"github.com/fbkclanna/workman/internal/ui"
	"github.com/fbkclanna/workman/internal/workspace"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [projects...]",
		Short: "Migrate setup.py, setup.cfg and requirements.txt to pyproject.toml",
		Long: `Migrate setup.py, setup.cfg and requirements.txt to pyproject.toml.

Values already present in pyproject.toml are kept; the legacy files only
fill in what is missing. Projects without legacy files are skipped.`,
		Args: cobra.ArbitraryArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("clean", false, "Remove the legacy files after migrating")
	cmd.Flags().Bool("dry-run", false, "Show the generated pyproject.toml as a diff without writing")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask before removing legacy files")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	clean, _ := cmd.Flags().GetBool("clean")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	_, projects, err := selectProjects(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if clean && !dryRun {
		ok, err := confirm(cmd.ErrOrStderr(), "Remove these legacy packaging files after migrating?", legacyFiles(projects), yes)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	results, migrateErr := migrate.Workspace(projects, migrate.Options{Clean: clean, DryRun: dryRun}, newLogger(cmd))

	st := ui.NewStyles(out)
	for _, res := range results {
		if res.Skipped {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n%s:\n", st.Bold.Render(res.Project))
		_, _ = fmt.Fprintf(out, "  found: %s\n", strings.Join(res.SourcesFound, ", "))
		for _, w := range res.Warnings {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", st.Skipped.Render("warning"), w)
		}
		if dryRun {
			_, _ = fmt.Fprintf(out, "  would write %s\n", pyproject.FileName)
			_, _ = fmt.Fprint(out, res.Change.Diff())
			continue
		}
		_, _ = fmt.Fprintf(out, "  wrote %s\n", pyproject.FileName)
		if len(res.FilesRemoved) > 0 {
			_, _ = fmt.Fprintf(out, "  removed: %s\n", strings.Join(res.FilesRemoved, ", "))
		}
	}

	migrated, skipped := migrate.Counts(results)
	_, _ = fmt.Fprintf(out, "\nMigrated %d project(s). %d skipped.\n", migrated, skipped)
	return migrateErr
}

// legacyFiles lists the legacy packaging files present in projects as
// project-relative paths.
func legacyFiles(projects []workspace.Project) []string {
	var files []string
	for _, p := range projects {
		for _, name := range migrate.LegacyFiles {
			if _, err := os.Stat(filepath.Join(p.Dir, name)); err == nil {
				files = append(files, p.Name+"/"+name)
			}
		}
	}
	return files
}
