package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/application/inputsim"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/helpers"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/terminal"
)

type execKind struct {
	use   string
	short string
	mode  domain.Mode
	debug bool
	label string
}

// NewRunCommand creates the run command
func NewRunCommand(container *app.Container) *cobra.Command {
	return newExecCommand(container, execKind{
		use:   "run <file|->",
		short: "Run code on the interpreter service",
		mode:  domain.ModeGeneral,
		label: LabelRunning,
	})
}

// NewDebugCommand creates the debug command
func NewDebugCommand(container *app.Container) *cobra.Command {
	return newExecCommand(container, execKind{
		use:   "debug <file|->",
		short: "Run code on the interpreter service in debug mode",
		mode:  domain.ModeGeneral,
		debug: true,
		label: LabelDebugging,
	})
}

// NewSQLCommand creates the sql command
func NewSQLCommand(container *app.Container) *cobra.Command {
	return newExecCommand(container, execKind{
		use:   "sql <file|->",
		short: "Run a query on the relational service",
		mode:  domain.ModeRelational,
		label: LabelQuerying,
	})
}

func newExecCommand(container *app.Container, kind execKind) *cobra.Command {
	return &cobra.Command{
		Use:   kind.use,
		Short: kind.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := helpers.ReadSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return dispatchSource(cmd, container, kind, source)
		},
	}
}

// dispatchSource sends source through the dispatcher and prints the display text
func dispatchSource(cmd *cobra.Command, container *app.Container, kind execKind, source string) error {
	if container.Dispatcher == nil {
		return fmt.Errorf(ErrDispatcherUnavailable)
	}
	if strings.TrimSpace(source) == "" {
		return domain.ErrEmptySource
	}

	out := cmd.OutOrStdout()
	session := domain.Session{Mode: kind.mode}
	req := session.Request(source, kind.debug)

	// Prompts and the spinner share the terminal, so the spinner only runs
	// when no interactive input will be requested.
	var spinner *terminal.Spinner
	if kind.mode == domain.ModeRelational || !inputsim.HasInputCalls(source) {
		spinner = terminal.StartSpinner(cmd.ErrOrStderr(), kind.label)
	}
	result, err := container.Dispatcher.Execute(cmd.Context(), req)
	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			terminal.RenderResult(out, result)
		}
		return err
	}
	terminal.RenderResult(out, result)
	return nil
}
