package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/pyfuturist/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateServer(cfg); err != nil {
		return err
	}
	if err := validateTimeouts(cfg.Timeouts); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if err := validateEditor(cfg.Editor); err != nil {
		return err
	}
	return nil
}

func validateServer(cfg domain.Config) error {
	paths := map[string]string{
		"server.run_path":     cfg.Server.RunPath,
		"server.sql_path":     cfg.Server.SQLPath,
		"server.suggest_path": cfg.Server.SuggestPath,
	}
	for field, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s must be set", field)
		}
		if _, err := cfg.Endpoint(path); err != nil {
			return err
		}
	}
	return nil
}

func validateTimeouts(t domain.TimeoutSettings) error {
	if t.RunSeconds < 0 {
		return fmt.Errorf("timeouts.run must be >= 0")
	}
	if t.SQLSeconds < 0 {
		return fmt.Errorf("timeouts.sql must be >= 0")
	}
	if t.SuggestSeconds < 0 {
		return fmt.Errorf("timeouts.suggest must be >= 0")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch strings.ToLower(history.Backend) {
	case "", domain.HistoryBackendSQLite, domain.HistoryBackendFile:
	default:
		return fmt.Errorf("history.backend must be sqlite|file, got %s", history.Backend)
	}
	if history.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be > 0")
	}
	if history.MaxAgeHours < 0 {
		return fmt.Errorf("history.max_age_hours must be > 0")
	}
	if history.QuotaBytes < 0 {
		return fmt.Errorf("history.quota_bytes must be >= 0")
	}
	return nil
}

func validateEditor(editor domain.EditorSettings) error {
	if _, err := domain.ParseMode(editor.DefaultMode); err != nil {
		return fmt.Errorf("editor.default_mode: %w", err)
	}
	switch strings.ToLower(editor.Theme) {
	case "", string(domain.ThemeDark), string(domain.ThemeLight):
	default:
		return fmt.Errorf("editor.theme must be dark|light, got %s", editor.Theme)
	}
	return nil
}
