package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/pyfuturist/internal/domain"
)

type fakeDispatcher struct {
	requests []domain.ExecutionRequest
	result   domain.ExecutionResult
	err      error
}

func (f *fakeDispatcher) Execute(_ context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

type fakeCompleter struct {
	cursor int
	set    domain.CompletionSet
}

func (f *fakeCompleter) Complete(_ context.Context, _ domain.Session, _ string, cursor int) domain.CompletionSet {
	f.cursor = cursor
	return f.set
}

type fakeHistory struct {
	entries []domain.HistoryEntry
}

func (f *fakeHistory) Record(context.Context, string, domain.Action) error { return nil }

func (f *fakeHistory) List(context.Context) ([]domain.HistoryEntry, error) { return f.entries, nil }

func newTestApp(opts Options) *App {
	app := NewApp(context.Background(), opts)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// run feeds msg to the app and then resolves any command it returns.
func run(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if next := cmd(); next != nil {
		app.Update(next)
	}
}

func TestToggleModeAndTheme(t *testing.T) {
	app := newTestApp(Options{Session: domain.Session{Mode: domain.ModeGeneral, Theme: domain.ThemeDark}})

	app.Update(key(tea.KeyCtrlT))
	app.Update(key(tea.KeyCtrlL))
	want := domain.Session{Mode: domain.ModeRelational, Theme: domain.ThemeLight}
	if diff := cmp.Diff(want, app.Session()); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDispatchesWithSessionMode(t *testing.T) {
	dispatcher := &fakeDispatcher{result: domain.ExecutionResult{DisplayText: "[\n  1\n]"}}
	app := newTestApp(Options{Dispatcher: dispatcher, Session: domain.Session{Mode: domain.ModeRelational}})
	app.SetCode("SELECT 1")

	_, cmd := app.Update(key(tea.KeyCtrlR))
	if !app.busy || app.status != "Running..." {
		t.Fatalf("expected running status, got busy=%v status=%q", app.busy, app.status)
	}
	if _, again := app.Update(key(tea.KeyCtrlR)); again != nil {
		t.Fatalf("second dispatch while busy must be ignored")
	}
	app.Update(cmd())

	want := []domain.ExecutionRequest{{Source: "SELECT 1", Mode: domain.ModeRelational}}
	if diff := cmp.Diff(want, dispatcher.requests); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
	if app.busy || app.output != "[\n  1\n]" || app.failed {
		t.Fatalf("unexpected state: busy=%v output=%q failed=%v", app.busy, app.output, app.failed)
	}
}

func TestDebugShowsConnectionError(t *testing.T) {
	dispatcher := &fakeDispatcher{
		result: domain.ExecutionResult{DisplayText: domain.ConnectionErrorMessage},
		err:    fmt.Errorf("run code: %w", domain.ErrTransport),
	}
	app := newTestApp(Options{Dispatcher: dispatcher})
	app.SetCode("print(1)")

	_, cmd := app.Update(key(tea.KeyCtrlD))
	if app.status != "Debugging..." {
		t.Fatalf("status = %q", app.status)
	}
	app.Update(cmd())

	if !dispatcher.requests[0].Debug {
		t.Fatalf("debug flag not set")
	}
	if app.output != domain.ConnectionErrorMessage || !app.failed {
		t.Fatalf("output = %q failed=%v", app.output, app.failed)
	}
}

func TestEmptyEditorDoesNotDispatch(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	app := newTestApp(Options{Dispatcher: dispatcher})
	if _, cmd := app.Update(key(tea.KeyCtrlR)); cmd != nil {
		t.Fatalf("expected no command for empty editor")
	}
	if len(dispatcher.requests) != 0 {
		t.Fatalf("empty editor dispatched")
	}
}

func TestCompletionInsertsRemainder(t *testing.T) {
	completer := &fakeCompleter{set: domain.CompletionSet{
		Generation: 1,
		Items: []domain.CompletionItem{
			{Label: "len", Insert: "len", Category: domain.CategoryBuiltin},
			{Label: "print", Insert: "print", Category: domain.CategoryBuiltin},
		},
	}}
	app := newTestApp(Options{Completer: completer})
	app.SetCode("pri")

	run(t, app, key(tea.KeyTab))
	if completer.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", completer.cursor)
	}
	if app.pane != paneCompletions || len(app.items) != 1 {
		t.Fatalf("expected filtered menu, got pane=%v items=%v", app.pane, app.items)
	}
	app.Update(key(tea.KeyEnter))
	if app.Code() != "print" {
		t.Fatalf("code = %q", app.Code())
	}
	if app.pane != paneOutput {
		t.Fatalf("menu not closed")
	}
}

func TestStaleCompletionsAreDropped(t *testing.T) {
	app := newTestApp(Options{})
	items := []domain.CompletionItem{{Label: "print", Insert: "print", Category: domain.CategoryBuiltin}}

	app.Update(completionMsg{set: domain.CompletionSet{Items: items, Generation: 1, Stale: true}})
	if app.pane == paneCompletions {
		t.Fatalf("stale set was shown")
	}

	app.Update(completionMsg{set: domain.CompletionSet{Items: items, Generation: 3}})
	app.Update(key(tea.KeyEsc))
	app.Update(completionMsg{set: domain.CompletionSet{Items: items, Generation: 2}})
	if app.pane == paneCompletions {
		t.Fatalf("older generation was shown after a newer one")
	}
}

func TestHistoryPaneLoadsEntry(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{entries: []domain.HistoryEntry{
		{Code: "print(2)", Action: domain.ActionRun, Time: now},
		{Code: "SELECT 1", Action: domain.ActionSQL, Time: now.Add(-time.Minute)},
	}}
	app := newTestApp(Options{History: history})

	run(t, app, key(tea.KeyCtrlO))
	if app.pane != paneHistory || len(app.entries) != 2 {
		t.Fatalf("history pane not loaded: pane=%v entries=%d", app.pane, len(app.entries))
	}
	app.Update(key(tea.KeyDown))
	app.Update(key(tea.KeyEnter))

	if app.Code() != "SELECT 1" {
		t.Fatalf("code = %q", app.Code())
	}
	if app.Session().Mode != domain.ModeRelational {
		t.Fatalf("mode = %q", app.Session().Mode)
	}
	if app.pane != paneOutput {
		t.Fatalf("history pane not closed")
	}
}

func TestHistoryPaneEmptyMessage(t *testing.T) {
	app := newTestApp(Options{History: &fakeHistory{}})
	run(t, app, key(tea.KeyCtrlO))
	if got := app.viewHistory(); !strings.Contains(got, domain.EmptyHistoryMessage) {
		t.Fatalf("empty history view = %q", got)
	}
}

func TestPromptAnswerAndCancel(t *testing.T) {
	app := newTestApp(Options{})

	req := PromptRequest{Message: "Name?", reply: make(chan promptReply, 1)}
	app.Update(promptRequestMsg{req: req})
	if app.pending == nil {
		t.Fatalf("prompt not pending")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Ada")})
	app.Update(key(tea.KeyEnter))

	if got := <-req.reply; !got.ok || got.value != "Ada" {
		t.Fatalf("reply = %+v", got)
	}
	if app.pending != nil {
		t.Fatalf("prompt still pending")
	}

	second := PromptRequest{Message: "Again?", reply: make(chan promptReply, 1)}
	app.Update(promptRequestMsg{req: second})
	app.Update(key(tea.KeyEsc))
	if got := <-second.reply; got.ok || got.value != "" {
		t.Fatalf("cancel reply = %+v", got)
	}
}

func TestWordBefore(t *testing.T) {
	tests := []struct {
		code   string
		cursor int
		want   string
	}{
		{"pri", 3, "pri"},
		{"np.ar", 5, "ar"},
		{"x = ", 4, ""},
		{"café_1 + 2", 6, "café_1"},
		{"abc", 10, "abc"},
	}
	for _, tt := range tests {
		if got := wordBefore(tt.code, tt.cursor); got != tt.want {
			t.Fatalf("wordBefore(%q, %d) = %q, want %q", tt.code, tt.cursor, got, tt.want)
		}
	}
}
