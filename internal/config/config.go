package config

import "time"

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Remote     RemoteConfig   `mapstructure:"remote"`
	Rates      RatesConfig    `mapstructure:"rates"`
	Log        LogConfig      `mapstructure:"log"`
	Server     ServerConfig   `mapstructure:"server"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
	Period   string `mapstructure:"period"`
}

const (
	RemoteNone     = "none"
	RemoteHTTP     = "http"
	RemotePostgres = "postgres"
	RemoteMemory   = "memory"
)

// RemoteConfig selects the replica the local ledger synchronizes with.
type RemoteConfig struct {
	Kind    string        `mapstructure:"kind"`
	URL     string        `mapstructure:"url"`
	DSN     string        `mapstructure:"dsn"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RatesConfig struct {
	URL     string        `mapstructure:"url"`
	MaxAge  time.Duration `mapstructure:"max_age"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Path       string `mapstructure:"path"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ServerConfig is only read by `leaf serve` and `leaf token`.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Store    string        `mapstructure:"store"`
	DSN      string        `mapstructure:"dsn"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Defaults: DefaultsConfig{Currency: "USD", Period: "monthly"},
		Remote: RemoteConfig{
			Kind:    RemoteNone,
			Timeout: 15 * time.Second,
		},
		Rates: RatesConfig{
			URL:     "https://api.frankfurter.app",
			MaxAge:  12 * time.Hour,
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:     ":8787",
			TokenTTL: 30 * 24 * time.Hour,
			Store:    RemoteMemory,
		},
	}
}
