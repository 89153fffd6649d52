package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// DefaultTopSources is how many snippets history stats ranks
	DefaultTopSources = 5
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrDispatcherUnavailable    = "dispatcher unavailable"
	ErrCompletionUnavailable    = "completion aggregator unavailable"
	ErrKeyRequired              = "--key is required"
	ErrCursorRequired           = "either --cursor or --line/--column is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgResetCancelled           = "Reset cancelled."
)

// Status labels shown while a dispatch is in flight
const (
	LabelRunning   = "Running..."
	LabelDebugging = "Debugging..."
	LabelQuerying  = "Querying..."
)
