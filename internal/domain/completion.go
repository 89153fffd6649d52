package domain

// CompletionCategory tags where a completion item came from.
type CompletionCategory string

const (
	CategoryOperator   CompletionCategory = "operator"
	CategoryBuiltin    CompletionCategory = "builtin"
	CategoryKeyword    CompletionCategory = "keyword"
	CategoryLibrary    CompletionCategory = "library"
	CategorySuggestion CompletionCategory = "suggestion"
)

// CompletionItem is a single candidate shown in the completion menu.
type CompletionItem struct {
	Label    string
	Insert   string
	Category CompletionCategory
}

// CompletionSet is the result of one completion request.
type CompletionSet struct {
	Items      []CompletionItem
	Generation uint64
	// Stale is set when a newer request was issued before this one resolved.
	Stale bool
	// Degraded is set when the suggestion fetch failed and only the static catalog was used.
	Degraded bool
}
