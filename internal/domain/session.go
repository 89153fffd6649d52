package domain

import (
	"fmt"
	"strings"
)

// Mode selects the execution back-end.
type Mode string

const (
	ModeGeneral    Mode = "general"
	ModeRelational Mode = "relational"
)

// ParseMode accepts the canonical mode names plus the language aliases used on the command line.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "general", "python", "py":
		return ModeGeneral, nil
	case "relational", "sql", "sqlite":
		return ModeRelational, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, value)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeGeneral || m == ModeRelational
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeRelational {
		return ModeGeneral
	}
	return ModeRelational
}

// Theme is the editor color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Session is the editor state a dispatch or completion is issued against.
// It is passed by value so the mode is captured together with the code.
type Session struct {
	Mode  Mode
	Theme Theme
}

// NewSession builds a session from configuration defaults.
func NewSession(cfg Config) Session {
	return Session{Mode: cfg.StartMode(), Theme: cfg.StartTheme()}
}

// Request snapshots the session mode together with the source to dispatch.
func (s Session) Request(source string, debug bool) ExecutionRequest {
	return ExecutionRequest{Source: source, Mode: s.Mode, Debug: debug}
}
