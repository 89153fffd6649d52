// Package tui is the terminal editor: a code area, an output pane, a history
// pane and a completion menu driven by bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/doeshing/pyfuturist/internal/application/completion"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

const maxMenuItems = 8

var titleCaser = cases.Title(language.English)

// Dispatcher runs one execution request.
type Dispatcher interface {
	Execute(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error)
}

// Completer resolves completions at a cursor.
type Completer interface {
	Complete(ctx context.Context, session domain.Session, code string, cursor int) domain.CompletionSet
}

// Options carries the collaborators of the editor.
type Options struct {
	Dispatcher  Dispatcher
	Completer   Completer
	History     ports.HistoryStore
	Bridge      *Bridge
	Session     domain.Session
	Logger      ports.Logger
	InitialCode string
}

type pane int

const (
	paneOutput pane = iota
	paneHistory
	paneCompletions
)

// App is the bubbletea model of the editor.
type App struct {
	ctx        context.Context
	dispatcher Dispatcher
	completer  Completer
	history    ports.HistoryStore
	bridge     *Bridge
	logger     ports.Logger

	session domain.Session
	styles  Styles
	editor  textarea.Model
	input   textinput.Model

	pane   pane
	busy   bool
	status string
	output string
	failed bool

	pending *PromptRequest

	items          []domain.CompletionItem
	selectedItem   int
	prefix         string
	lastGeneration uint64

	entries       []domain.HistoryEntry
	selectedEntry int

	width  int
	height int
}

// NewApp builds the editor model. ctx bounds every dispatch and completion it issues.
func NewApp(ctx context.Context, opts Options) *App {
	editor := textarea.New()
	editor.Placeholder = "Write code here. ctrl+r run, ctrl+d debug, ctrl+t switch mode."
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.Focus()
	if opts.InitialCode != "" {
		editor.SetValue(opts.InitialCode)
	}

	input := textinput.New()
	input.Prompt = "> "

	session := opts.Session
	if !session.Mode.Valid() {
		session.Mode = domain.ModeGeneral
	}
	if session.Theme == "" {
		session.Theme = domain.ThemeDark
	}

	return &App{
		ctx:        ctx,
		dispatcher: opts.Dispatcher,
		completer:  opts.Completer,
		history:    opts.History,
		bridge:     opts.Bridge,
		logger:     opts.Logger,
		session:    session,
		styles:     StylesFor(session.Theme),
		editor:     editor,
		input:      input,
	}
}

// Run starts the editor and blocks until the user quits.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := NewApp(ctx, opts)
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	_, err := tea.NewProgram(app, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Session returns the current mode and theme.
func (a *App) Session() domain.Session {
	return a.session
}

// Code returns the editor contents.
func (a *App) Code() string {
	return a.editor.Value()
}

// SetCode replaces the editor contents.
func (a *App) SetCode(code string) {
	a.editor.SetValue(code)
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.waitForPrompt())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case promptRequestMsg:
		req := msg.req
		a.pending = &req
		a.input.Reset()
		a.input.Placeholder = ""
		a.editor.Blur()
		return a, a.input.Focus()

	case dispatchDoneMsg:
		return a.handleDispatchDone(msg)

	case completionMsg:
		return a.handleCompletions(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("History unavailable: %v", msg.err)
			return a, nil
		}
		a.entries = msg.entries
		if a.selectedEntry >= len(a.entries) {
			a.selectedEntry = 0
		}
		return a, nil
	}

	var cmd tea.Cmd
	if a.pending != nil {
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if a.pending != nil {
			a.pending.Cancel()
			a.pending = nil
		}
		return a, tea.Quit
	}
	if a.pending != nil {
		return a.handlePromptKey(msg)
	}
	switch a.pane {
	case paneCompletions:
		if model, cmd, handled := a.handleCompletionKey(msg); handled {
			return model, cmd
		}
	case paneHistory:
		if model, cmd, handled := a.handleHistoryKey(msg); handled {
			return model, cmd
		}
	}
	return a.handleEditorKey(msg)
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		return a, a.dispatch(false)

	case "ctrl+d":
		return a, a.dispatch(true)

	case "ctrl+t":
		a.session.Mode = a.session.Mode.Toggle()
		a.status = fmt.Sprintf("Switched to %s mode", a.session.Mode)
		return a, nil

	case "ctrl+l":
		a.session.Theme = a.session.Theme.Toggle()
		a.styles = StylesFor(a.session.Theme)
		return a, nil

	case "ctrl+o":
		if a.pane == paneHistory {
			a.pane = paneOutput
			return a, nil
		}
		a.pane = paneHistory
		return a, a.loadHistory()

	case "tab", "ctrl+@", "ctrl+ ":
		return a, a.requestCompletions()
	}

	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a *App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.pending.Answer(a.input.Value())
	case "esc":
		a.pending.Cancel()
	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	a.pending = nil
	a.input.Blur()
	return a, tea.Batch(a.editor.Focus(), a.waitForPrompt())
}

func (a *App) handleCompletionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		if a.selectedItem > 0 {
			a.selectedItem--
		}
		return a, nil, true
	case "down":
		if a.selectedItem < len(a.items)-1 {
			a.selectedItem++
		}
		return a, nil, true
	case "enter", "tab":
		if len(a.items) > 0 {
			a.insertCompletion(a.items[a.selectedItem])
		}
		a.closeCompletions()
		return a, nil, true
	case "esc":
		a.closeCompletions()
		return a, nil, true
	}
	a.closeCompletions()
	return a, nil, false
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		if a.selectedEntry > 0 {
			a.selectedEntry--
		}
		return a, nil, true
	case "down":
		if a.selectedEntry < len(a.entries)-1 {
			a.selectedEntry++
		}
		return a, nil, true
	case "enter":
		if len(a.entries) > 0 {
			a.loadEntry(a.entries[a.selectedEntry])
		}
		a.pane = paneOutput
		return a, nil, true
	case "esc":
		a.pane = paneOutput
		return a, nil, true
	}
	return a, nil, false
}

// loadEntry puts a history entry back in the editor with the mode it ran in.
func (a *App) loadEntry(entry domain.HistoryEntry) {
	a.editor.SetValue(entry.Code)
	if entry.Action == domain.ActionSQL {
		a.session.Mode = domain.ModeRelational
	} else {
		a.session.Mode = domain.ModeGeneral
	}
	a.status = fmt.Sprintf("Loaded %s entry from %s", entry.Action, humanize.Time(entry.Time))
}

func (a *App) dispatch(debug bool) tea.Cmd {
	if a.busy || a.dispatcher == nil {
		return nil
	}
	req := a.session.Request(a.editor.Value(), debug)
	if strings.TrimSpace(req.Source) == "" {
		a.status = domain.ErrEmptySource.Error()
		return nil
	}
	a.busy = true
	a.pane = paneOutput
	if debug {
		a.status = "Debugging..."
	} else {
		a.status = "Running..."
	}

	ctx := a.ctx
	dispatcher := a.dispatcher
	return func() tea.Msg {
		result, err := dispatcher.Execute(ctx, req)
		return dispatchDoneMsg{result: result, err: err}
	}
}

func (a *App) handleDispatchDone(msg dispatchDoneMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	a.status = ""
	switch {
	case msg.err == nil:
		a.output = msg.result.DisplayText
		a.failed = false
	case errors.Is(msg.err, domain.ErrTransport):
		a.output = msg.result.DisplayText
		a.failed = true
	default:
		a.output = fmt.Sprintf("Error: %v", msg.err)
		a.failed = true
	}
	if a.logger != nil && msg.err != nil {
		a.logger.Warn("dispatch ended with error", map[string]interface{}{"error": msg.err.Error()})
	}
	return a, nil
}

func (a *App) requestCompletions() tea.Cmd {
	if a.completer == nil {
		return nil
	}
	code := a.editor.Value()
	cursor := completion.Offset(code, a.editor.Line(), a.cursorColumn())
	a.prefix = wordBefore(code, cursor)

	ctx := a.ctx
	session := a.session
	completer := a.completer
	return func() tea.Msg {
		return completionMsg{set: completer.Complete(ctx, session, code, cursor)}
	}
}

func (a *App) handleCompletions(msg completionMsg) (tea.Model, tea.Cmd) {
	if msg.set.Stale || msg.set.Generation < a.lastGeneration {
		return a, nil
	}
	a.lastGeneration = msg.set.Generation
	a.items = filterItems(msg.set.Items, a.prefix)
	a.selectedItem = 0
	if len(a.items) == 0 {
		a.status = "No completions"
		return a, nil
	}
	if msg.set.Degraded {
		a.status = "Suggestions unavailable; showing catalog"
	}
	a.pane = paneCompletions
	return a, nil
}

func (a *App) insertCompletion(item domain.CompletionItem) {
	text := item.Insert
	if a.prefix != "" && strings.HasPrefix(text, a.prefix) {
		text = text[len(a.prefix):]
	}
	a.editor.InsertString(text)
}

func (a *App) closeCompletions() {
	a.items = nil
	a.selectedItem = 0
	a.pane = paneOutput
}

func (a *App) loadHistory() tea.Cmd {
	if a.history == nil {
		return nil
	}
	ctx := a.ctx
	store := a.history
	return func() tea.Msg {
		entries, err := store.List(ctx)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (a *App) waitForPrompt() tea.Cmd {
	if a.bridge == nil {
		return nil
	}
	ctx := a.ctx
	bridge := a.bridge
	return func() tea.Msg {
		req, ok := bridge.Next(ctx)
		if !ok {
			return nil
		}
		return promptRequestMsg{req: req}
	}
}

// cursorColumn is the rune column of the cursor within its logical line.
func (a *App) cursorColumn() int {
	info := a.editor.LineInfo()
	return info.StartColumn + info.ColumnOffset
}

func (a *App) resize() {
	width := a.width - 2
	if width < 20 {
		width = 20
	}
	height := a.height / 2
	if height < 5 {
		height = 5
	}
	a.editor.SetWidth(width)
	a.editor.SetHeight(height)
	a.input.Width = width - 4
}

func (a *App) View() string {
	var b strings.Builder
	s := a.styles

	b.WriteString(s.Title.Render("pyfuturist"))
	b.WriteString("  ")
	b.WriteString(s.Label.Render("mode: "))
	b.WriteString(titleCaser.String(string(a.session.Mode)))
	b.WriteString("  ")
	b.WriteString(s.Label.Render("theme: "))
	b.WriteString(string(a.session.Theme))
	b.WriteString("\n\n")
	b.WriteString(a.editor.View())
	b.WriteString("\n")

	if a.pending != nil {
		message := a.pending.Message
		box := message + "\n" + a.input.View() + "\n" + s.Help.Render("[enter] submit  [esc] cancel")
		b.WriteString(s.Pane.Render(box))
		b.WriteString("\n")
	}

	switch a.pane {
	case paneCompletions:
		b.WriteString(s.Pane.Render(a.viewCompletions()))
	case paneHistory:
		b.WriteString(s.Pane.Render(a.viewHistory()))
	default:
		b.WriteString(s.Pane.Render(a.viewOutput()))
	}
	b.WriteString("\n")

	if a.status != "" {
		b.WriteString(s.Status.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("[ctrl+r] run  [ctrl+d] debug  [ctrl+t] mode  [tab] complete  [ctrl+o] history  [ctrl+l] theme  [ctrl+c] quit"))
	return b.String()
}

func (a *App) viewOutput() string {
	header := a.styles.Label.Render("Output")
	if a.output == "" {
		return header
	}
	if a.failed {
		return header + "\n" + a.styles.Error.Render(a.output)
	}
	return header + "\n" + a.styles.Output.Render(a.output)
}

func (a *App) viewHistory() string {
	header := a.styles.Label.Render("History")
	if len(a.entries) == 0 {
		return header + "\n" + a.styles.Dim.Render(domain.EmptyHistoryMessage)
	}
	lines := []string{header}
	for i, entry := range a.entries {
		line := fmt.Sprintf("[%s] %s  %s", titleCaser.String(string(entry.Action)), humanize.Time(entry.Time), truncate(firstLine(entry.Code), 60))
		if i == a.selectedEntry {
			lines = append(lines, a.styles.Selected.Render("▶ "+line))
		} else {
			lines = append(lines, "  "+a.styles.Dim.Render(line))
		}
	}
	lines = append(lines, a.styles.Help.Render("[↑/↓] select  [enter] load  [esc] close"))
	return strings.Join(lines, "\n")
}

func (a *App) viewCompletions() string {
	start := 0
	if a.selectedItem >= maxMenuItems {
		start = a.selectedItem - maxMenuItems + 1
	}
	end := start + maxMenuItems
	if end > len(a.items) {
		end = len(a.items)
	}
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := a.items[i]
		line := fmt.Sprintf("%-24s %s", item.Label, a.styles.Dim.Render(string(item.Category)))
		if i == a.selectedItem {
			lines = append(lines, a.styles.Selected.Render("▶ ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

// filterItems keeps catalog items matching prefix; remote suggestions are already cursor-scoped.
func filterItems(items []domain.CompletionItem, prefix string) []domain.CompletionItem {
	if prefix == "" {
		return items
	}
	out := make([]domain.CompletionItem, 0, len(items))
	for _, item := range items {
		if item.Category == domain.CategorySuggestion || strings.HasPrefix(item.Label, prefix) {
			out = append(out, item)
		}
	}
	return out
}

// wordBefore returns the identifier fragment ending at the rune offset cursor.
func wordBefore(code string, cursor int) string {
	runes := []rune(code)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	return string(runes[start:cursor])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstLine(code string) string {
	for _, line := range strings.Split(code, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

type promptRequestMsg struct {
	req PromptRequest
}

type dispatchDoneMsg struct {
	result domain.ExecutionResult
	err    error
}

type completionMsg struct {
	set domain.CompletionSet
}

type historyLoadedMsg struct {
	entries []domain.HistoryEntry
	err     error
}
