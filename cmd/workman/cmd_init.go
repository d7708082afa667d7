package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/workman/internal/config"
	"github.com/fbkclanna/workman/internal/ui"
	"github.com/fbkclanna/workman/internal/workspace"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scan the workspace and write " + config.FileName,
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")

	res, err := workspace.Init(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := ui.NewStyles(out)
	images := 0
	for _, p := range res.Projects {
		if p.Dockerfile {
			images++
			_, _ = fmt.Fprintf(out, "  %s: Dockerfile\n", st.Bold.Render(p.Name))
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s: %s (no Dockerfile)\n", st.Bold.Render(p.Name), st.Skipped.Render("skipped"))
	}
	_, _ = fmt.Fprintf(out, "\nWrote %s with %d project(s).\n", config.FileName, images)
	_, _ = fmt.Fprintf(out, "Updated .gitignore with %d project(s).\n", len(res.Projects))
	return nil
}
