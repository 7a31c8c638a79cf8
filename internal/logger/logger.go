// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group shared by all commands.
type Logger struct {
	Level   string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format" env:"LOG_FORMAT" description:"Log output format" choice:"console" choice:"json" default:"console"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colored console output"`
}

// Setup applies the options to the global logger. Logs go to stderr so
// commands can write data to stdout.
func (l Logger) Setup() {
	l.setup(os.Stderr)
}

func (l Logger) setup(w io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if l.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, NoColor: l.NoColor, TimeFormat: time.DateTime}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
