package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/pyfuturist/assets"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/pkg/filesystem"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// Environment overrides.
const (
	EnvConfigPath = "PYFUTURIST_CONFIG"
	EnvHome       = "PYFUTURIST_HOME"
	EnvServer     = "PYFUTURIST_SERVER"
)

// FileLoader loads YAML configuration from ~/.pyfuturist/config.yaml (overridable via PYFUTURIST_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path resolves through the environment.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			cfg, err := DefaultConfig()
			if err != nil {
				return domain.Config{}, err
			}
			return applyEnv(cfg), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return applyEnv(hydrateDefaults(cfg)), nil
}

// Path returns the configuration file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(DataDir(), "config.yaml")
}

// Save writes cfg to the configuration file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Backup copies the current configuration file next to it with a timestamp suffix.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	dest := fmt.Sprintf("%s.%s.bak", path, time.Now().UTC().Format("20060102T150405"))
	if err := os.WriteFile(dest, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return dest, nil
}

// Reset overwrites the configuration file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := writeDefault(path); err != nil {
		return domain.Config{}, err
	}
	return DefaultConfig()
}

// DataDir is the directory holding configuration and the history store.
func DataDir() string {
	if custom := os.Getenv(EnvHome); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".pyfuturist")
}

// HistoryPath returns the configured history store path, or the default for its backend.
func HistoryPath(cfg domain.Config) string {
	if cfg.History.Path != "" {
		return filesystem.ExpandPath(cfg.History.Path)
	}
	if cfg.History.Backend == domain.HistoryBackendFile {
		return filepath.Join(DataDir(), "history.json")
	}
	return filepath.Join(DataDir(), "history.db")
}

// DefaultConfig parses the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse default config: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Server.RunPath == "" {
		cfg.Server.RunPath = domain.DefaultRunPath
	}
	if cfg.Server.SQLPath == "" {
		cfg.Server.SQLPath = domain.DefaultSQLPath
	}
	if cfg.Server.SuggestPath == "" {
		cfg.Server.SuggestPath = domain.DefaultSuggestPath
	}
	if cfg.Timeouts.RunSeconds == 0 {
		cfg.Timeouts.RunSeconds = int(domain.DefaultRunTimeout.Seconds())
	}
	if cfg.Timeouts.SQLSeconds == 0 {
		cfg.Timeouts.SQLSeconds = int(domain.DefaultSQLTimeout.Seconds())
	}
	if cfg.Timeouts.SuggestSeconds == 0 {
		cfg.Timeouts.SuggestSeconds = int(domain.DefaultSuggestTimeout.Seconds())
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendSQLite
	}
	if cfg.History.Key == "" {
		cfg.History.Key = domain.DefaultHistoryKey
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = domain.DefaultHistoryMaxEntries
	}
	if cfg.History.MaxAgeHours == 0 {
		cfg.History.MaxAgeHours = int(domain.DefaultHistoryMaxAge.Hours())
	}
	if cfg.History.QuotaBytes == 0 {
		cfg.History.QuotaBytes = domain.DefaultStoreQuotaBytes
	}
	if cfg.Editor.DefaultMode == "" {
		cfg.Editor.DefaultMode = string(domain.ModeGeneral)
	}
	if cfg.Editor.Theme == "" {
		cfg.Editor.Theme = string(domain.ThemeDark)
	}
	return cfg
}

func applyEnv(cfg domain.Config) domain.Config {
	if server := strings.TrimSpace(os.Getenv(EnvServer)); server != "" {
		cfg.Server.BaseURL = server
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
