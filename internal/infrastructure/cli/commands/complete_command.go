package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/application/completion"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/helpers"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/terminal"
)

// NewCompleteCommand creates the complete command
func NewCompleteCommand(container *app.Container) *cobra.Command {
	var (
		cursor int
		line   int
		column int
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "complete <file|->",
		Short: "List completions at a cursor position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Completion == nil {
				return fmt.Errorf(ErrCompletionUnavailable)
			}
			source, err := helpers.ReadSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			parsedMode, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			switch {
			case flags.Changed("cursor"):
			case flags.Changed("line") || flags.Changed("column"):
				cursor = completion.Offset(source, line, column)
			default:
				return fmt.Errorf(ErrCursorRequired)
			}

			session := domain.Session{Mode: parsedMode, Theme: container.Config.StartTheme()}
			set := container.Completion.Complete(cmd.Context(), session, source, cursor)
			terminal.RenderCompletions(cmd.OutOrStdout(), set)
			return nil
		},
	}

	cmd.Flags().IntVar(&cursor, "cursor", 0, "Flat cursor offset in runes")
	cmd.Flags().IntVar(&line, "line", 0, "Cursor line (0-based)")
	cmd.Flags().IntVar(&column, "column", 0, "Cursor column in runes (0-based)")
	cmd.Flags().StringVar(&mode, "mode", "", "Editor mode (general|relational)")
	return cmd
}
