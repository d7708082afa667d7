package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/workman/internal/logging"
	"github.com/fbkclanna/workman/internal/workspace"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workman",
		Short:   "Keep the Python projects of a workspace consistent",
		Version: version,
	}

	cmd.PersistentFlags().StringP("root", "C", ".", "Workspace root directory")
	cmd.PersistentFlags().String("log-level", "", "Diagnostic log level (trace, debug, info, warn, error); defaults to $"+logging.EnvLog)

	cmd.AddCommand(
		newInitCmd(),
		newDepsCmd(),
		newMigrateCmd(),
		newCleanCmd(),
	)

	return cmd
}

// newLogger builds the diagnostic logger for a command run.
func newLogger(cmd *cobra.Command) hclog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(level, cmd.ErrOrStderr())
}

// loadWorkspace loads the workspace named by --root.
func loadWorkspace(cmd *cobra.Command) (*workspace.Context, error) {
	root, _ := cmd.Flags().GetString("root")
	return workspace.Load(root)
}

// selectProjects loads the workspace and resolves the project selectors in
// args.
func selectProjects(cmd *cobra.Command, args []string) (*workspace.Context, []workspace.Project, error) {
	ctx, err := loadWorkspace(cmd)
	if err != nil {
		return nil, nil, err
	}
	projects, err := ctx.Projects(args)
	if err != nil {
		return nil, nil, err
	}
	return ctx, projects, nil
}
