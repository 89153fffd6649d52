// Package completion merges the static catalog with cursor-scoped suggestions
// fetched from the remote suggestion service.
package completion

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// Aggregator produces completion sets. It holds no mutable state besides the
// generation counter and is safe for concurrent use.
type Aggregator struct {
	source  ports.SuggestionSource
	catalog Catalog
	timeout time.Duration
	logger  ports.Logger

	generation atomic.Uint64
}

// NewAggregator creates an aggregator. timeout bounds each suggestion fetch;
// zero selects domain.DefaultSuggestTimeout.
func NewAggregator(source ports.SuggestionSource, catalog Catalog, timeout time.Duration, logger ports.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = domain.DefaultSuggestTimeout
	}
	return &Aggregator{
		source:  source,
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
}

// Catalog returns the static catalog entries.
func (a *Aggregator) Catalog() []domain.CompletionItem {
	return a.catalog.Items()
}

// Complete returns the static catalog followed by the remote suggestions for
// cursor, a flat rune offset into code. It issues exactly one suggestion request
// and always returns a set: fetch failures and malformed responses degrade to
// the static catalog alone.
func (a *Aggregator) Complete(ctx context.Context, session domain.Session, code string, cursor int) domain.CompletionSet {
	gen := a.generation.Add(1)
	items := a.catalog.Items()
	set := domain.CompletionSet{Generation: gen}

	suggestions, err := a.fetch(ctx, code, ClampCursor(code, cursor))
	if err != nil {
		a.debug("suggestions unavailable, using static catalog", map[string]interface{}{
			"generation": gen,
			"mode":       session.Mode,
			"error":      err.Error(),
		})
		set.Degraded = true
	} else {
		for _, s := range suggestions {
			items = append(items, domain.CompletionItem{
				Label:    s,
				Insert:   s,
				Category: domain.CategorySuggestion,
			})
		}
	}

	set.Items = items
	set.Stale = a.generation.Load() != gen
	return set
}

// Latest reports the generation of the most recently issued request.
func (a *Aggregator) Latest() uint64 {
	return a.generation.Load()
}

func (a *Aggregator) fetch(ctx context.Context, code string, cursor int) ([]string, error) {
	if a.source == nil {
		return nil, domain.ErrTransport
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.source.Suggest(ctx, code, cursor)
}

func (a *Aggregator) debug(msg string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, fields)
	}
}
