package logger

import (
	"esc-cup/internal/config"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel applies level to every logger in the process. Unknown levels fall back to info.
func SetLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	return parsed
}

func ApplyLevel(cfg *config.Config, logger zerolog.Logger) {
	level := SetLevel(cfg.LogLevel)
	if level.String() != cfg.LogLevel {
		logger.Warn().Str("requested", cfg.LogLevel).Str("applied", level.String()).Msg("log level adjusted")
	}
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(ApplyLevel),
)
