package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout constants
const (
	// DefaultRunTimeout bounds a general code execution round trip
	DefaultRunTimeout = 30 * time.Second
	// DefaultSQLTimeout bounds a relational query round trip
	DefaultSQLTimeout = 30 * time.Second
	// DefaultSuggestTimeout bounds a suggestion fetch so completions never hang
	DefaultSuggestTimeout = 3 * time.Second
)

// History constants
const (
	// DefaultHistoryKey is the key-value key holding the serialized log
	DefaultHistoryKey = "pyfuturist_history"
	// DefaultHistoryMaxEntries caps the log length
	DefaultHistoryMaxEntries = 30
	// DefaultHistoryMaxAge evicts entries at or beyond this age
	DefaultHistoryMaxAge = 24 * time.Hour
	// DefaultStoreQuotaBytes bounds a single stored value
	DefaultStoreQuotaBytes = 5 << 20
)

// History store backends
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendFile   = "file"
)

// Server defaults
const (
	DefaultBaseURL     = "http://localhost:5000"
	DefaultRunPath     = "/run"
	DefaultSQLPath     = "/sql"
	DefaultSuggestPath = "/suggest"
)

// User-facing messages
const (
	// ConnectionErrorMessage is shown for every transport failure
	ConnectionErrorMessage = "Error connecting to server."
	// DefaultInputPrompt is shown when an input() call has no prompt argument
	DefaultInputPrompt = "Input:"
	// EmptyHistoryMessage is shown when no entry survives eviction
	EmptyHistoryMessage = "No history in the last 24 hours."
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
