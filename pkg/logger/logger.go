// Package logx configures the process-wide zerolog logger. Importing
// pkg/logger/autoload initializes it from the LOG-prefixed environment
// before main runs.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"atende"`
}

var DefaultConfig = &Config{Service: "atende"}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger. PrettyFormat switches to the console
// writer for local runs; otherwise output is JSON lines on stdout stamped
// with the service name.
func Init(opts ...Config) {
	conf := safe(opts...)

	writer := io.Writer(os.Stdout)
	if conf.PrettyFormat {
		writer = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", conf.Service).
		Caller().
		Stack().
		Logger()
}
