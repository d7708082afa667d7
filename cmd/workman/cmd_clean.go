package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/workman/internal/workspace"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove Python build artifacts (dist, build, __pycache__, *.egg-info) from all projects",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
	cmd.Flags().Bool("dry-run", false, "List the directories without removing them")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	dirs, err := workspace.Artifacts(ctx.Root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(dirs) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}
	for _, rel := range dirs {
		if dryRun {
			_, _ = fmt.Fprintf(out, "  would remove %s\n", rel)
			continue
		}
		_, _ = fmt.Fprintf(out, "  removing %s\n", rel)
		if err := workspace.RemoveArtifacts(ctx.Root, []string{rel}); err != nil {
			return err
		}
	}
	if dryRun {
		_, _ = fmt.Fprintf(out, "Would remove %d directories.\n", len(dirs))
		return nil
	}
	_, _ = fmt.Fprintf(out, "Removed %d directories.\n", len(dirs))
	return nil
}
