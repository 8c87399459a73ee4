// Package runtimeconfig aggregates the module's runtime settings and their
// consistency checks. Fields use simple types so host applications can embed
// and extend the configuration.
package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrStorageDriverUnknown indicates a storage driver this module cannot open.
	ErrStorageDriverUnknown = errors.New("localize config: storage driver is invalid")
	// ErrStorageDSNRequired indicates a database-backed driver with no DSN.
	ErrStorageDSNRequired = errors.New("localize config: storage dsn is required for database drivers")
	// ErrLoggingLevelInvalid indicates an unsupported logging level.
	ErrLoggingLevelInvalid = errors.New("localize config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates an unsupported logging format.
	ErrLoggingFormatInvalid = errors.New("localize config: logging format is invalid")
	// ErrTranslatorProviderUnknown indicates an unsupported translator provider.
	ErrTranslatorProviderUnknown = errors.New("localize config: translator provider is invalid")
	// ErrDefaultLocaleRequired indicates a blank default source locale.
	ErrDefaultLocaleRequired = errors.New("localize config: default locale is required")
)

// Config aggregates settings for the localization module.
type Config struct {
	DefaultLocale string           `yaml:"default_locale"`
	Locales       []string         `yaml:"locales"`
	Storage       StorageConfig    `yaml:"storage"`
	Logging       LoggingConfig    `yaml:"logging"`
	Translator    TranslatorConfig `yaml:"translator"`
}

// StorageConfig selects where translation state lives.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	// DSN is the database connection string for database drivers.
	DSN string `yaml:"dsn"`
}

// LoggingConfig captures options for the logging provider.
type LoggingConfig struct {
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// TranslatorConfig selects the machine translation backend.
type TranslatorConfig struct {
	// Provider is "", "dummy" or "google". Empty disables machine translation.
	Provider string `yaml:"provider"`
	// Delay spaces out per-string requests on rate limited providers.
	Delay time.Duration `yaml:"delay"`
}

// DefaultConfig returns opinionated defaults: in-memory storage, console
// logging, no machine translation backend.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en"},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Translator: TranslatorConfig{},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("localize config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("localize config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "memory":
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	if !isSupportedLevel(cfg.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrLoggingLevelInvalid, cfg.Logging.Level)
	}
	if !isSupportedFormat(cfg.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrLoggingFormatInvalid, cfg.Logging.Format)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Translator.Provider)) {
	case "", "dummy", "google":
	default:
		return fmt.Errorf("%w: %q", ErrTranslatorProviderUnknown, cfg.Translator.Provider)
	}

	return nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "console", "pretty":
		return true
	}
	return false
}
