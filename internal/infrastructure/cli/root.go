package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/commands"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/terminal"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned container must be closed by the caller.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	container.Simulator.Prompter = terminal.NewPrompter(nil, nil)

	var verbose bool

	root := &cobra.Command{
		Use:   "pyfuturist",
		Short: "pyfuturist - terminal client for the code playground",
		Long:  "pyfuturist edits code in the terminal and runs it on the playground's interpreter or query service.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				container.Logger.SetVerbose(true)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunEditor(cmd, container, args, "")
		},
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(commands.NewEditCommand(container))
	root.AddCommand(commands.NewRunCommand(container))
	root.AddCommand(commands.NewDebugCommand(container))
	root.AddCommand(commands.NewSQLCommand(container))
	root.AddCommand(commands.NewCompleteCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, container, nil
}
