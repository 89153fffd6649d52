package terminal

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/pyfuturist/internal/domain"
)

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	entries := []domain.HistoryEntry{
		{Code: "SELECT 1", Action: domain.ActionSQL, Time: now.Add(-2 * time.Minute)},
		{Code: "x = 1\nprint(x)\n", Action: domain.ActionDebug, Time: now.Add(-3 * time.Hour)},
	}
	var buf bytes.Buffer
	RenderHistory(&buf, entries, now)

	want := "[Sql] 2 minutes ago\n  SELECT 1\n\n[Debug] 3 hours ago\n  x = 1\n  print(x)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, nil, time.Now())
	if buf.String() != domain.EmptyHistoryMessage+"\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRenderHistoryJSON(t *testing.T) {
	ts := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := RenderHistoryJSON(&buf, []domain.HistoryEntry{{Code: "1", Action: domain.ActionRun, Time: ts}}); err != nil {
		t.Fatalf("RenderHistoryJSON error: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []map[string]string{{"code": "1", "action": "run", "time": "2026-01-02T12:00:00Z"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCompletionsGroupsByCategory(t *testing.T) {
	set := domain.CompletionSet{
		Items: []domain.CompletionItem{
			{Label: "print", Insert: "print", Category: domain.CategoryBuiltin},
			{Label: "len", Insert: "len", Category: domain.CategoryBuiltin},
			{Label: "append", Insert: "append", Category: domain.CategorySuggestion},
		},
		Degraded: true,
	}
	var buf bytes.Buffer
	RenderCompletions(&buf, set)
	want := "Builtin:\n  print\n  len\nSuggestion:\n  append\n(suggestion service unavailable; static catalog only)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderResultAddsTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, domain.ExecutionResult{DisplayText: "3"})
	RenderResult(&buf, domain.ExecutionResult{DisplayText: "4\n"})
	if buf.String() != "3\n4\n" {
		t.Fatalf("output = %q", buf.String())
	}
}
