// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// Game rule defaults
const (
	DefaultTimeLimit     = 60 * time.Second
	DefaultMatchDelay    = 500 * time.Millisecond
	DefaultMismatchDelay = time.Second
	DefaultRevealDelay   = 2 * time.Second
	DefaultPerfectMoves  = 15
	DefaultNoticeTime    = 2 * time.Second
)

// setDefaultConfig sets default values for every configuration key. Keys
// must be registered here for environment overrides to reach Unmarshal.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("data.catalog_path", "")
	v.SetDefault("data.observations_path", "")

	v.SetDefault("storage.type", StorageSQLite)
	v.SetDefault("storage.sqlite.path", "nestegg.db")
	v.SetDefault("storage.mysql.host", "localhost")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.username", "nestegg")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.database", "nestegg")
	v.SetDefault("storage.mysql.timeout", 10*time.Second)

	v.SetDefault("game.time_limit", DefaultTimeLimit)
	v.SetDefault("game.match_delay", DefaultMatchDelay)
	v.SetDefault("game.mismatch_delay", DefaultMismatchDelay)
	v.SetDefault("game.reveal_delay", DefaultRevealDelay)
	v.SetDefault("game.perfect_moves", DefaultPerfectMoves)

	v.SetDefault("notice.duration", DefaultNoticeTime)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	v.SetDefault("webserver.enabled", false)
	v.SetDefault("webserver.listen", "127.0.0.1:8080")
	v.SetDefault("webserver.metrics", true)
	v.SetDefault("webserver.ratelimit.enabled", false)
	v.SetDefault("webserver.ratelimit.requests_per_second", 20.0)
	v.SetDefault("webserver.ratelimit.burst", 40)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
}
