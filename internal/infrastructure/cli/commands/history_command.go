package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/pyfuturist/internal/app"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/helpers"
	"github.com/doeshing/pyfuturist/internal/infrastructure/cli/terminal"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect execution history from the last 24 hours",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List surviving history entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadHistory(cmd, container)
			if err != nil {
				return err
			}
			if asJSON {
				return terminal.RenderHistoryJSON(cmd.OutOrStdout(), entries)
			}
			terminal.RenderHistory(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts per action and the most repeated snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadHistory(cmd, container)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), domain.EmptyHistoryMessage)
				return nil
			}
			displayHistoryStatistics(cmd.OutOrStdout(), helpers.AnalyzeHistory(entries, DefaultTopSources))
			return nil
		},
	}
}

func loadHistory(cmd *cobra.Command, container *app.Container) ([]domain.HistoryEntry, error) {
	if container.HistoryStore == nil {
		return nil, fmt.Errorf(ErrHistoryStoreUnavailable)
	}
	entries, err := container.HistoryStore.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve history: %w", err)
	}
	return entries, nil
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats helpers.HistoryStatistics) {
	fmt.Fprintf(out, "Entries: %d\n", stats.Total)

	fmt.Fprintln(out, "By action:")
	actions := make([]string, 0, len(stats.ByAction))
	for action := range stats.ByAction {
		actions = append(actions, string(action))
	}
	sort.Strings(actions)
	for _, action := range actions {
		fmt.Fprintf(out, "  %s: %d\n", terminal.Title(action), stats.ByAction[domain.Action(action)])
	}

	fmt.Fprintln(out, "Top snippets:")
	for _, stat := range stats.TopSources {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Source, stat.Count)
	}
}
