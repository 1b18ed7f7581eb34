package app

import (
	"github.com/spf13/viper"

	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// Context carries what the command line resolved before a subcommand runs.
// Settings and Logger are filled in by the root command's pre-run hook.
type Context struct {
	Viper      *viper.Viper
	ConfigFile string
	Settings   *conf.Settings
	Logger     *logger.CentralLogger
}

// NewContext returns a Context with a fresh viper instance.
func NewContext() *Context {
	return &Context{Viper: conf.NewViper()}
}

// Log returns the root logger, or a discarding one before setup.
func (c *Context) Log() logger.Logger {
	if c.Logger == nil {
		return logger.Discard()
	}
	return c.Logger.Module("nestegg")
}

// Open builds an App from the resolved settings. The caller closes it.
func (c *Context) Open(opts ...Option) (*App, error) {
	return New(c.Settings, c.Log(), opts...)
}
