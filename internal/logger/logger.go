package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(zerolog.DebugLevel)

	return logger
}

// ApplyLevel sets the process-wide minimum level from a LOG_LEVEL string.
// Loggers built by New start at debug, so this is the effective level.
func ApplyLevel(logger zerolog.Logger, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logger.Warn().Str("log_level", level).Msg("unknown log level, keeping debug")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

var Module = fx.Provide(New)
