package domain

import "time"

// Action names what kind of dispatch produced a history entry.
type Action string

const (
	ActionRun   Action = "run"
	ActionDebug Action = "debug"
	ActionSQL   Action = "sql"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRun, ActionDebug, ActionSQL:
		return true
	default:
		return false
	}
}

// HistoryEntry is one recorded execution attempt. Entries are never mutated.
type HistoryEntry struct {
	Code   string
	Action Action
	Time   time.Time
}

// Age returns how old the entry is relative to now.
func (e HistoryEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.Time)
}
