package localize

import "github.com/goliatone/go-localize/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrTranslatorProviderUnknown = runtimeconfig.ErrTranslatorProviderUnknown
	ErrDefaultLocaleRequired     = runtimeconfig.ErrDefaultLocaleRequired
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	TranslatorConfig = runtimeconfig.TranslatorConfig
)

// DefaultConfig returns the module defaults: in-memory storage, console
// logging, no machine translation backend.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over the defaults and validates
// the result.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
