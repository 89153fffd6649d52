package helpers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/pyfuturist/internal/domain"
)

func TestSetAndTraverseNestedMap(t *testing.T) {
	root := map[string]interface{}{"server": map[string]interface{}{"base_url": "http://a"}}
	if !SetNestedMapValue(root, []string{"server", "base_url"}, "http://b") {
		t.Fatalf("SetNestedMapValue returned false")
	}
	if !SetNestedMapValue(root, []string{"editor", "theme"}, "light") {
		t.Fatalf("SetNestedMapValue on new branch returned false")
	}
	if SetNestedMapValue(root, nil, "x") {
		t.Fatalf("empty key path must fail")
	}

	got, ok := TraverseNestedMap(root, []string{"server", "base_url"})
	if !ok || got != "http://b" {
		t.Fatalf("server.base_url = %v ok %v", got, ok)
	}
	if got, ok := TraverseNestedMap(root, []string{"editor", "theme"}); !ok || got != "light" {
		t.Fatalf("editor.theme = %v ok %v", got, ok)
	}
	if _, ok := TraverseNestedMap(root, []string{"server", "base_url", "deeper"}); ok {
		t.Fatalf("traversal through a scalar must fail")
	}
}

func TestParseYAMLValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{in: "30", want: 30},
		{in: "true", want: true},
		{in: "light", want: "light"},
		{in: "[unterminated", want: "[unterminated"},
	}
	for _, tt := range tests {
		got, err := ParseYAMLValue(tt.in)
		if err != nil {
			t.Fatalf("ParseYAMLValue(%q) error: %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseYAMLValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestConfigMapRoundTripValidates(t *testing.T) {
	cfg := domain.Config{
		Server:  domain.ServerSettings{BaseURL: "http://localhost:5000", RunPath: "/run", SQLPath: "/sql", SuggestPath: "/suggest"},
		History: domain.HistorySettings{Backend: "sqlite"},
	}
	m, err := ConfigToMap(cfg)
	if err != nil {
		t.Fatalf("ConfigToMap error: %v", err)
	}
	SetNestedMapValue(m, []string{"history", "backend"}, "redis")
	if _, err := MapToConfig(m); err == nil || !strings.Contains(err.Error(), "history.backend") {
		t.Fatalf("expected validation failure, got %v", err)
	}
	SetNestedMapValue(m, []string{"history", "backend"}, "file")
	updated, err := MapToConfig(m)
	if err != nil {
		t.Fatalf("MapToConfig error: %v", err)
	}
	if updated.History.Backend != "file" {
		t.Fatalf("backend = %q", updated.History.Backend)
	}
}

func TestAnalyzeHistory(t *testing.T) {
	now := time.Now()
	entries := []domain.HistoryEntry{
		{Code: "print(1)", Action: domain.ActionRun, Time: now},
		{Code: "\nprint(1)\nprint(2)", Action: domain.ActionDebug, Time: now},
		{Code: "SELECT 1", Action: domain.ActionSQL, Time: now},
	}
	stats := AnalyzeHistory(entries, 1)
	if stats.Total != 3 {
		t.Fatalf("total = %d", stats.Total)
	}
	wantActions := map[domain.Action]int{domain.ActionRun: 1, domain.ActionDebug: 1, domain.ActionSQL: 1}
	if diff := cmp.Diff(wantActions, stats.ByAction); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SourceStatistic{{Source: "print(1)", Count: 2}}, stats.TopSources); diff != "" {
		t.Fatalf("top sources mismatch (-want +got):\n%s", diff)
	}
}

type scriptedPrompter struct {
	answers  []string
	messages []string
}

func (p *scriptedPrompter) Prompt(_ context.Context, message string) (string, bool, error) {
	p.messages = append(p.messages, message)
	if len(p.answers) == 0 {
		return "", false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, true, nil
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		answers    []string
		defaultYes bool
		want       bool
	}{
		{name: "yes", answers: []string{"yes"}, want: true},
		{name: "short y", answers: []string{" Y "}, want: true},
		{name: "no", answers: []string{"n"}, defaultYes: true, want: false},
		{name: "empty uses default no", answers: []string{""}, want: false},
		{name: "empty uses default yes", answers: []string{""}, defaultYes: true, want: true},
		{name: "cancelled uses default", defaultYes: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := &scriptedPrompter{answers: tt.answers}
			got, err := Confirm(context.Background(), prompter, "Reset?", tt.defaultYes)
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Confirm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirmLabel(t *testing.T) {
	prompter := &scriptedPrompter{answers: []string{"y"}}
	if _, err := Confirm(context.Background(), prompter, "Reset?", false); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if diff := cmp.Diff([]string{"Reset? [y/N]:"}, prompter.messages); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("print(1)\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSource(path, nil)
	if err != nil || got != "print(1)\n" {
		t.Fatalf("ReadSource(file) = %q err %v", got, err)
	}
	got, err = ReadSource(StdinArg, strings.NewReader("SELECT 1"))
	if err != nil || got != "SELECT 1" {
		t.Fatalf("ReadSource(stdin) = %q err %v", got, err)
	}
	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing.py"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
