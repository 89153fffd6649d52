package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/pyfuturist/internal/infrastructure/config"
	"github.com/doeshing/pyfuturist/internal/infrastructure/tui"
)

// LogFileName receives log output while the editor owns the terminal.
const LogFileName = "pyfuturist.log"

// NewEditCommand creates the edit command that opens the terminal editor
func NewEditCommand(container *app.Container) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the terminal editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEditor(cmd, container, args, mode)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Start in general or relational mode (default from config)")
	return cmd
}

// RunEditor opens the editor, optionally preloaded with the file in args.
func RunEditor(cmd *cobra.Command, container *app.Container, args []string, mode string) error {
	if container.Dispatcher == nil {
		return fmt.Errorf(ErrDispatcherUnavailable)
	}

	session := domain.NewSession(container.Config)
	if mode != "" {
		parsed, err := domain.ParseMode(mode)
		if err != nil {
			return err
		}
		session.Mode = parsed
	}

	var initial string
	if len(args) == 1 {
		source, err := helpers.ReadSource(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		initial = source
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	container.Logger.SetOutput(logFile)
	defer container.Logger.SetOutput(os.Stderr)

	bridge := tui.NewBridge()
	container.Simulator.Prompter = bridge

	return tui.Run(cmd.Context(), tui.Options{
		Dispatcher:  container.Dispatcher,
		Completer:   container.Completion,
		History:     container.HistoryStore,
		Bridge:      bridge,
		Session:     session,
		Logger:      container.Logger,
		InitialCode: initial,
	})
}

func openLogFile() (*os.File, error) {
	dir := configinfra.DataDir()
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
}
