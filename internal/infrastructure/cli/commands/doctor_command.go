package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/terminal"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, history store and service reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), container)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	if container.DoctorService == nil {
		return fmt.Errorf(ErrDoctorServiceUnavailable)
	}

	spinner := terminal.StartSpinner(cmd.ErrOrStderr(), "Checking...")
	report, err := container.DoctorService.Run(cmd.Context())
	spinner.Stop()

	// Display report even if there were errors
	terminal.RenderHealthReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.Failed() {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}
