// Package terminal holds the stdio prompter, renderers and spinner shared by CLI commands.
package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/doeshing/pyfuturist/internal/domain"
)

var titleCaser = cases.Title(language.English)

// Title returns label with its first letter upper-cased.
func Title(label string) string {
	return titleCaser.String(label)
}

// RenderResult prints the display text of a dispatch.
func RenderResult(out io.Writer, result domain.ExecutionResult) {
	text := result.DisplayText
	fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
}

// RenderHistory prints entries newest first as "[Action] relative-time" headers followed by the code.
func RenderHistory(out io.Writer, entries []domain.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, domain.EmptyHistoryMessage)
		return
	}
	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "[%s] %s\n", Title(string(entry.Action)), humanize.RelTime(entry.Time, now, "ago", "from now"))
		for _, line := range strings.Split(strings.TrimRight(entry.Code, "\n"), "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

type historyJSON struct {
	Code   string `json:"code"`
	Action string `json:"action"`
	Time   string `json:"time"`
}

// RenderHistoryJSON prints entries as a JSON array.
func RenderHistoryJSON(out io.Writer, entries []domain.HistoryEntry) error {
	rows := make([]historyJSON, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, historyJSON{
			Code:   entry.Code,
			Action: string(entry.Action),
			Time:   entry.Time.UTC().Format(domain.TimestampFormat),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// RenderCompletions prints one item per line grouped by category.
func RenderCompletions(out io.Writer, set domain.CompletionSet) {
	var current domain.CompletionCategory
	for _, item := range set.Items {
		if item.Category != current {
			current = item.Category
			fmt.Fprintf(out, "%s:\n", Title(string(current)))
		}
		fmt.Fprintf(out, "  %s\n", item.Label)
	}
	if set.Degraded {
		fmt.Fprintln(out, "(suggestion service unavailable; static catalog only)")
	}
}

// RenderHealthReport prints each doctor check on its own line.
func RenderHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
