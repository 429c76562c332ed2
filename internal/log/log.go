package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// level prefers application.log_level and falls back to trace in development and info
// everywhere else.
func level(cfg config.Application) zerolog.Level {
	if cfg.LogLevel != "" {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			return lvl
		}
	}
	if cfg.Env == constants.ENV_DEVELOPMENT {
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

// Get builds the process logger once. Records always go to a rotated JSON file at
// filepath; stdout gets JSON in production and a console format otherwise.
func Get(filepath string, cfg config.Application) zerolog.Logger {
	once.Do(func() {
		zerolog.DurationFieldUnit = time.Millisecond
		zerolog.ErrorFieldName = "error"
		zerolog.ErrorStackFieldName = "stack-trace"
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimestampFieldName = "timestamp"
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var stdout io.Writer = os.Stdout
		if !cfg.IsProduction() {
			stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
		}
		rotated := &lumberjack.Logger{
			Filename:   filepath,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}

		logger = zerolog.New(zerolog.MultiLevelWriter(stdout, rotated)).
			Level(level(cfg)).
			Hook(AttachTraceIdFromContext()).
			With().
			Timestamp().
			Caller().
			Stack().
			Str("env", cfg.Env).
			Int("pid", os.Getpid()).
			Logger()

		logger.Info().
			Str(constants.KEY_TAG, "log Get").
			Str(constants.KEY_PROCESS, "init logger").
			Str("level", logger.GetLevel().String()).
			Msg("initialized logger")
	})
	return logger
}
