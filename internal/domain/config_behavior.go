package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Endpoint joins the configured base URL with a service path.
func (c *Config) Endpoint(path string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(c.Server.BaseURL))
	if err != nil {
		return "", fmt.Errorf("server.base_url invalid: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("server.base_url must be absolute, got %q", c.Server.BaseURL)
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid service path %q: %w", path, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String(), nil
}

// RunTimeout returns the deadline applied to general code execution.
func (c *Config) RunTimeout() time.Duration {
	return secondsOr(c.Timeouts.RunSeconds, DefaultRunTimeout)
}

// SQLTimeout returns the deadline applied to relational queries.
func (c *Config) SQLTimeout() time.Duration {
	return secondsOr(c.Timeouts.SQLSeconds, DefaultSQLTimeout)
}

// SuggestTimeout returns the deadline applied to suggestion fetches.
func (c *Config) SuggestTimeout() time.Duration {
	return secondsOr(c.Timeouts.SuggestSeconds, DefaultSuggestTimeout)
}

// HistoryMaxAge returns the age at which history entries are evicted.
func (c *Config) HistoryMaxAge() time.Duration {
	if c.History.MaxAgeHours <= 0 {
		return DefaultHistoryMaxAge
	}
	return time.Duration(c.History.MaxAgeHours) * time.Hour
}

// HistoryMaxEntries returns the history capacity.
func (c *Config) HistoryMaxEntries() int {
	if c.History.MaxEntries <= 0 {
		return DefaultHistoryMaxEntries
	}
	return c.History.MaxEntries
}

// StartMode parses editor.default_mode, falling back to general mode.
func (c *Config) StartMode() Mode {
	mode, err := ParseMode(c.Editor.DefaultMode)
	if err != nil {
		return ModeGeneral
	}
	return mode
}

// StartTheme parses editor.theme, falling back to the dark theme.
func (c *Config) StartTheme() Theme {
	if strings.EqualFold(c.Editor.Theme, string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
