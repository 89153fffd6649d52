// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The core services (history, input simulation,
// completion, dispatch) depend only on these abstractions, so the remote services,
// the key-value store and the prompt facility can be swapped for fakes in tests
// or for different front-ends (CLI, terminal editor).
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., CodeRunner, KeyValueStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/pyfuturist/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.pyfuturist/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// KeyValueStore is the durable, capacity-bounded store the history log lives in.
// Get reports ok=false when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// HistoryStore records execution attempts and lists the surviving entries newest first.
type HistoryStore interface {
	Record(ctx context.Context, code string, action domain.Action) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}

// InputPrompter asks the user for one line of input. ok=false means the user cancelled.
// The call blocks until the user answers or ctx is done.
type InputPrompter interface {
	Prompt(ctx context.Context, message string) (value string, ok bool, err error)
}

// CodeRunner executes general-purpose code on the interpreter service.
// Errors are transport failures; application errors travel in the result.
type CodeRunner interface {
	RunCode(ctx context.Context, code string, debug bool) (domain.GeneralResult, error)
}

// QueryRunner executes a query on the relational service.
type QueryRunner interface {
	RunQuery(ctx context.Context, query string) (domain.RelationalResult, error)
}

// SuggestionSource fetches cursor-scoped suggestions. cursor is a flat rune offset into code.
type SuggestionSource interface {
	Suggest(ctx context.Context, code string, cursor int) ([]string, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
