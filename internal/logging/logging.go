package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/nfrund/eventbroker/internal/config"
)

// New builds a logger from cfg, writing to stdout, and sets it as the default.
func New(cfg *config.Config) *slog.Logger {
	logger := NewWithWriter(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter builds a logger for the given format ("text", "json" or
// "console") and level. Unknown levels fall back to info.
func NewWithWriter(w io.Writer, format, level string) *slog.Logger {
	lvl := ParseLevel(level)

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
		})
	case "console":
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp, NoColor: w != os.Stdout}
		handler = zeroslog.NewHandler(
			zerolog.New(output).With().Timestamp().Logger(),
			&zeroslog.HandlerOptions{Level: lvl},
		)
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     lvl,
			AddSource: true, // Adds source file and line number
		})
	}

	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
