package domain

// Config mirrors ~/.pyfuturist/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Server              ServerSettings  `yaml:"server"`
	Timeouts            TimeoutSettings `yaml:"timeouts"`
	History             HistorySettings `yaml:"history"`
	Editor              EditorSettings  `yaml:"editor"`
}

// ServerSettings locates the playground back-end.
type ServerSettings struct {
	BaseURL     string `yaml:"base_url"`
	RunPath     string `yaml:"run_path"`
	SQLPath     string `yaml:"sql_path"`
	SuggestPath string `yaml:"suggest_path"`
}

// TimeoutSettings bounds each remote call, in seconds.
type TimeoutSettings struct {
	RunSeconds     int `yaml:"run"`
	SQLSeconds     int `yaml:"sql"`
	SuggestSeconds int `yaml:"suggest"`
}

// HistorySettings configures the execution history log and its backing store.
type HistorySettings struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Key         string `yaml:"key"`
	MaxEntries  int    `yaml:"max_entries"`
	MaxAgeHours int    `yaml:"max_age_hours"`
	QuotaBytes  int    `yaml:"quota_bytes"`
}

// EditorSettings holds editor shell preferences.
type EditorSettings struct {
	DefaultMode string `yaml:"default_mode"`
	Theme       string `yaml:"theme"`
	CatalogFile string `yaml:"catalog_file"`
}
