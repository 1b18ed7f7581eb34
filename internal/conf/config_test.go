package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	settings, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, settings.Storage.Type)
	assert.Equal(t, "nestegg.db", settings.Storage.SQLite.Path)
	assert.Equal(t, 60*time.Second, settings.Game.TimeLimit)
	assert.Equal(t, 500*time.Millisecond, settings.Game.MatchDelay)
	assert.Equal(t, time.Second, settings.Game.MismatchDelay)
	assert.Equal(t, 2*time.Second, settings.Game.RevealDelay)
	assert.Equal(t, 15, settings.Game.PerfectMoves)
	assert.Equal(t, 2*time.Second, settings.Notice.Duration)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)
	assert.False(t, settings.WebServer.Enabled)
}

func TestDefaultsIgnoreEnvironment(t *testing.T) {
	t.Setenv("NESTEGG_STORAGE_TYPE", "memory")
	settings, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, settings.Storage.Type)
	assert.NoError(t, ValidateSettings(settings))
}

func TestEmbeddedConfigMatchesDefaults(t *testing.T) {
	data, err := DefaultConfig()
	require.NoError(t, err)
	path := writeConfig(t, string(data))

	fromFile, err := Load(NewViper(), path)
	require.NoError(t, err)

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	fromDefaults, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, fromDefaults, fromFile)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
storage:
  type: memory
game:
  time_limit: 30s
  match_delay: 250ms
webserver:
  enabled: true
  listen: ":9090"
logging:
  module_levels:
    game: debug
`)
	t.Setenv("NESTEGG_GAME_PERFECT_MOVES", "20")

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, settings.Storage.Type)
	assert.Equal(t, 30*time.Second, settings.Game.TimeLimit)
	assert.Equal(t, 250*time.Millisecond, settings.Game.MatchDelay)
	assert.Equal(t, 20, settings.Game.PerfectMoves)
	assert.Equal(t, ":9090", settings.WebServer.Listen)
	assert.Equal(t, "debug", settings.Logging.ModuleLevels["game"])
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		settings, err := Load(NewViper(), writeConfig(t, "storage:\n  type: memory\n"))
		require.NoError(t, err)
		return settings
	}

	tests := []struct {
		name   string
		mutate func(s *Settings)
		errMsg string
	}{
		{"valid", func(*Settings) {}, ""},
		{"unknown storage", func(s *Settings) { s.Storage.Type = "redis" }, "oneof"},
		{"mysql without host", func(s *Settings) {
			s.Storage.Type = StorageMySQL
			s.Storage.MySQL.Host = ""
		}, "storage.mysql is missing host"},
		{"sqlite without path", func(s *Settings) {
			s.Storage.Type = StorageSQLite
			s.Storage.SQLite.Path = ""
		}, "storage.sqlite.path"},
		{"mismatch faster than match", func(s *Settings) {
			s.Game.MismatchDelay = 100 * time.Millisecond
		}, "mismatch_delay"},
		{"fractional time limit", func(s *Settings) { s.Game.TimeLimit = 1500 * time.Millisecond }, "whole number"},
		{"too few perfect moves", func(s *Settings) { s.Game.PerfectMoves = 3 }, "PerfectMoves"},
		{"sentry without dsn", func(s *Settings) { s.Sentry.Enabled = true }, "DSN"},
		{"webserver without listen", func(s *Settings) {
			s.WebServer.Enabled = true
			s.WebServer.Listen = ""
		}, "Listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	path := writeConfig(t, "storage:\n  type: memory\n")
	settings, err := Load(NewViper(), path)
	require.NoError(t, err)

	settings.Game.TimeLimit = 45 * time.Second
	settings.WebServer.RateLimit.Enabled = true
	require.NoError(t, SaveYAMLConfig(path, settings))

	reloaded, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, settings, reloaded)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "config-*.yaml"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))
	require.Error(t, WriteDefaultConfig(path))
}
