// conf/config.go
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// EnvPrefix is the prefix for environment overrides, NESTEGG_STORAGE_TYPE etc.
const EnvPrefix = "NESTEGG"

// Storage backends
const (
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Settings contains all configuration options for NestEgg Journal.
type Settings struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`

	Data      DataSettings         `mapstructure:"data" yaml:"data"`
	Storage   StorageSettings      `mapstructure:"storage" yaml:"storage"`
	Game      GameSettings         `mapstructure:"game" yaml:"game"`
	Notice    NoticeSettings       `mapstructure:"notice" yaml:"notice"`
	Logging   logger.LoggingConfig `mapstructure:"logging" yaml:"logging"`
	WebServer WebServerSettings    `mapstructure:"webserver" yaml:"webserver"`
	Sentry    SentrySettings       `mapstructure:"sentry" yaml:"sentry"`
}

// DataSettings points at replacement datasets. Empty paths use the bundled data.
type DataSettings struct {
	CatalogPath      string `mapstructure:"catalog_path" yaml:"catalog_path"`
	ObservationsPath string `mapstructure:"observations_path" yaml:"observations_path"`
}

// StorageSettings selects the durable key/value backend.
type StorageSettings struct {
	Type   string         `mapstructure:"type" yaml:"type" validate:"oneof=sqlite mysql memory"`
	SQLite SQLiteSettings `mapstructure:"sqlite" yaml:"sqlite"`
	MySQL  MySQLSettings  `mapstructure:"mysql" yaml:"mysql"`
}

type SQLiteSettings struct {
	Path string `mapstructure:"path" yaml:"path"` // ":memory:" keeps the database in RAM
}

type MySQLSettings struct {
	Host     string        `mapstructure:"host" yaml:"host"`
	Port     int           `mapstructure:"port" yaml:"port" validate:"gte=0,lt=65536"`
	Username string        `mapstructure:"username" yaml:"username"`
	Password string        `mapstructure:"password" yaml:"password"`
	Database string        `mapstructure:"database" yaml:"database"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// GameSettings holds the memory game rules and deferral timings.
type GameSettings struct {
	TimeLimit     time.Duration `mapstructure:"time_limit" yaml:"time_limit" validate:"gte=1s"`
	MatchDelay    time.Duration `mapstructure:"match_delay" yaml:"match_delay" validate:"gt=0"`
	MismatchDelay time.Duration `mapstructure:"mismatch_delay" yaml:"mismatch_delay" validate:"gt=0"`
	RevealDelay   time.Duration `mapstructure:"reveal_delay" yaml:"reveal_delay" validate:"gte=0"`
	PerfectMoves  int           `mapstructure:"perfect_moves" yaml:"perfect_moves" validate:"gte=12"`
}

type NoticeSettings struct {
	Duration time.Duration `mapstructure:"duration" yaml:"duration" validate:"gt=0"`
}

type WebServerSettings struct {
	Enabled   bool              `mapstructure:"enabled" yaml:"enabled"`
	Listen    string            `mapstructure:"listen" yaml:"listen" validate:"required_if=Enabled true"`
	Metrics   bool              `mapstructure:"metrics" yaml:"metrics"`
	RateLimit RateLimitSettings `mapstructure:"ratelimit" yaml:"ratelimit"`
}

// RateLimitSettings throttles API requests per client IP.
type RateLimitSettings struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" yaml:"burst" validate:"gte=0"`
}

type SentrySettings struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN         string `mapstructure:"dsn" yaml:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers may bind command line flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultConfig(v)
	return v
}

// Load reads configFile, or the first config.yaml found in the default
// config paths, into Settings. A missing config file is not an error; the
// defaults apply.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if v == nil {
		v = NewViper()
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		paths, err := GetDefaultConfigPaths()
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("operation", "read-config").
				Context("file", configFile).
				Build()
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Defaults returns the built-in settings. No file or environment variable
// is consulted.
func Defaults() (*Settings, error) {
	v := viper.New()
	setDefaultConfig(v)
	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-defaults").
			Build()
	}
	return settings, nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml,
// in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}
	return []string{".", filepath.Join(homeDir, ".config", "nestegg")}, nil
}

// DefaultConfig returns the bundled config.yaml.
func DefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "read-embedded-config").
			Build()
	}
	return data, nil
}

// WriteDefaultConfig writes the bundled config.yaml to path unless a file
// already exists there.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	data, err := DefaultConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret by default
		return fmt.Errorf("error writing default config file: %w", err)
	}
	return nil
}

// SaveYAMLConfig writes settings to configPath. It overwrites the existing
// file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write to a temp file in the same directory so the rename is atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName) //nolint:errcheck // gone after a successful rename

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "replace-config").
			Context("file", configPath).
			Build()
	}
	return nil
}
