package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            `mapstructure:"default_level" yaml:"default_level" json:"default_level"` // default log level for all modules
	Timezone     string            `mapstructure:"timezone" yaml:"timezone" json:"timezone"`                // "Local", "UTC", or IANA timezone name
	Console      *ConsoleOutput    `mapstructure:"console" yaml:"console" json:"console"`
	FileOutput   *FileOutput       `mapstructure:"file_output" yaml:"file_output" json:"file_output"`
	ModuleLevels map[string]string `mapstructure:"module_levels" yaml:"module_levels,omitempty" json:"module_levels,omitempty"` // per-module log levels
}

// ConsoleOutput represents console logging configuration.
// Console output is human-readable text without timestamps.
type ConsoleOutput struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Level   string `mapstructure:"level" yaml:"level" json:"level"`
}

// FileOutput represents file logging configuration.
// File output is JSON with RFC3339 timestamps.
type FileOutput struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
	Level   string `mapstructure:"level" yaml:"level" json:"level"`
}

// Default values for logging configuration.
// These match the defaults in conf/defaults.go.
const (
	DefaultLogLevel       = "info"
	DefaultLogPath        = "logs/nestegg.log"
	DefaultConsoleEnabled = true
	DefaultFileEnabled    = false
)

// applyConfigDefaults fills nil configuration sections
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg == nil {
		return
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = DefaultLogLevel
	}
	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{
			Enabled: DefaultConsoleEnabled,
			Level:   cfg.DefaultLevel,
		}
	}
	if cfg.FileOutput == nil {
		cfg.FileOutput = &FileOutput{
			Enabled: DefaultFileEnabled,
			Path:    DefaultLogPath,
			Level:   cfg.DefaultLevel,
		}
	}
}
