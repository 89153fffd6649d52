package completion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/pyfuturist/internal/domain"
)

type suggestCall struct {
	code   string
	cursor int
}

type fakeSource struct {
	mu          sync.Mutex
	suggestions []string
	err         error
	calls       []suggestCall
	block       chan struct{}
}

func (f *fakeSource) Suggest(ctx context.Context, code string, cursor int) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, suggestCall{code: code, cursor: cursor})
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.suggestions, f.err
}

func testCatalog(t *testing.T) Catalog {
	t.Helper()
	catalog, err := ParseCatalog([]byte(`
groups:
  - name: builtins
    category: builtin
    members: [print, len]
  - name: keywords
    category: keyword
    members: [def]
`))
	if err != nil {
		t.Fatalf("ParseCatalog error: %v", err)
	}
	return catalog
}

var generalSession = domain.Session{Mode: domain.ModeGeneral}

func TestCompleteMergesCatalogThenSuggestions(t *testing.T) {
	source := &fakeSource{suggestions: []string{"print", "prefix"}}
	agg := NewAggregator(source, testCatalog(t), time.Second, nil)

	set := agg.Complete(context.Background(), generalSession, "pr", 2)

	want := []domain.CompletionItem{
		{Label: "print", Insert: "print", Category: domain.CategoryBuiltin},
		{Label: "len", Insert: "len", Category: domain.CategoryBuiltin},
		{Label: "def", Insert: "def", Category: domain.CategoryKeyword},
		{Label: "print", Insert: "print", Category: domain.CategorySuggestion},
		{Label: "prefix", Insert: "prefix", Category: domain.CategorySuggestion},
	}
	if diff := cmp.Diff(want, set.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if set.Degraded {
		t.Fatal("expected non-degraded set")
	}
	if diff := cmp.Diff([]suggestCall{{code: "pr", cursor: 2}}, source.calls, cmp.AllowUnexported(suggestCall{})); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteFallsBackToCatalogOnFailure(t *testing.T) {
	catalog := testCatalog(t)
	for name, source := range map[string]*fakeSource{
		"fetch rejected": {err: domain.ErrTransport},
		"malformed":      {err: domain.ErrMalformedResponse},
	} {
		t.Run(name, func(t *testing.T) {
			agg := NewAggregator(source, catalog, time.Second, nil)
			set := agg.Complete(context.Background(), generalSession, "x = ", 4)
			if diff := cmp.Diff(catalog.Items(), set.Items); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}
			if !set.Degraded {
				t.Fatal("expected degraded set")
			}
		})
	}
}

func TestCompleteResultDominatesCatalog(t *testing.T) {
	catalog := testCatalog(t)
	sources := []*fakeSource{
		{},
		{suggestions: []string{}},
		{suggestions: []string{"a", "b", "c"}},
		{err: errors.New("boom")},
	}
	for _, cursor := range []int{-5, 0, 3, 1000} {
		for _, source := range sources {
			agg := NewAggregator(source, catalog, time.Second, nil)
			set := agg.Complete(context.Background(), generalSession, "abc", cursor)
			if len(set.Items) < catalog.Len() {
				t.Fatalf("cursor %d: %d items < catalog %d", cursor, len(set.Items), catalog.Len())
			}
		}
	}
}

func TestCompleteClampsCursor(t *testing.T) {
	source := &fakeSource{}
	agg := NewAggregator(source, testCatalog(t), time.Second, nil)
	agg.Complete(context.Background(), generalSession, "héllo", 99)
	agg.Complete(context.Background(), generalSession, "héllo", -1)
	if source.calls[0].cursor != 5 || source.calls[1].cursor != 0 {
		t.Fatalf("unexpected cursors %+v", source.calls)
	}
}

func TestCompleteResolvesWhenServiceHangs(t *testing.T) {
	source := &fakeSource{block: make(chan struct{})}
	defer close(source.block)
	catalog := testCatalog(t)
	agg := NewAggregator(source, catalog, 20*time.Millisecond, nil)

	done := make(chan domain.CompletionSet, 1)
	go func() { done <- agg.Complete(context.Background(), generalSession, "x", 1) }()

	select {
	case set := <-done:
		if len(set.Items) != catalog.Len() || !set.Degraded {
			t.Fatalf("expected static fallback, got %+v", set)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Complete did not resolve")
	}
}

// firstCallBlocks holds the first request until release is closed.
type firstCallBlocks struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *firstCallBlocks) Suggest(ctx context.Context, code string, _ int) ([]string, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n == 1 {
		close(f.started)
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []string{"old"}, nil
	}
	return []string{"new"}, nil
}

func TestCompleteMarksStaleSets(t *testing.T) {
	source := &firstCallBlocks{started: make(chan struct{}), release: make(chan struct{})}
	agg := NewAggregator(source, testCatalog(t), 5*time.Second, nil)

	first := make(chan domain.CompletionSet, 1)
	go func() { first <- agg.Complete(context.Background(), generalSession, "o", 1) }()
	<-source.started

	second := agg.Complete(context.Background(), generalSession, "n", 1)
	close(source.release)
	older := <-first

	if second.Stale {
		t.Fatal("latest set must not be stale")
	}
	if !older.Stale {
		t.Fatal("earlier set resolved after a newer request must be stale")
	}
	if older.Generation >= second.Generation {
		t.Fatalf("generations not increasing: %d >= %d", older.Generation, second.Generation)
	}
	if got := older.Items[len(older.Items)-1].Label; got != "old" {
		t.Fatalf("stale set still carries its suggestions, got %q", got)
	}
}

func TestOffset(t *testing.T) {
	source := "ab\nçd\n\nxyz"
	tests := []struct {
		line, column, want int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{0, 9, 2},
		{1, 0, 3},
		{1, 1, 4},
		{1, 2, 5},
		{2, 0, 6},
		{3, 3, 10},
		{7, 0, 10},
		{-1, -1, 0},
	}
	for _, tt := range tests {
		if got := Offset(source, tt.line, tt.column); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestDefaultCatalogIsStable(t *testing.T) {
	first, err := DefaultCatalog("")
	if err != nil {
		t.Fatalf("DefaultCatalog error: %v", err)
	}
	second, err := DefaultCatalog("")
	if err != nil {
		t.Fatalf("DefaultCatalog error: %v", err)
	}
	if first.Len() == 0 {
		t.Fatal("default catalog must not be empty")
	}
	if diff := cmp.Diff(first.Items(), second.Items()); diff != "" {
		t.Fatalf("catalog not stable (-first +second):\n%s", diff)
	}
}

func TestParseCatalogRejectsEmpty(t *testing.T) {
	if _, err := ParseCatalog([]byte("groups: []")); err == nil {
		t.Fatal("expected error for empty catalog")
	}
	if _, err := ParseCatalog([]byte("groups:\n  - name: x\n    members: [a]\n")); err == nil {
		t.Fatal("expected error for group without category")
	}
}
