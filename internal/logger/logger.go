package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"dexsource/internal/domain"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zerolog.Logger so the level can be changed at runtime.
type Logger interface {
	Log() *zerolog.Event
	Fatal() *zerolog.Event
	Err(err error) *zerolog.Event
	Error() *zerolog.Event
	Warn() *zerolog.Event
	Info() *zerolog.Event
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	With() zerolog.Context
	SetLogLevel(level string)
}

type DefaultLogger struct {
	log     zerolog.Logger
	level   zerolog.Level
	writers []io.Writer
}

func New(cfg *domain.Config) Logger {
	l := &DefaultLogger{
		level: zerolog.DebugLevel,
	}

	zerolog.TimeFieldFormat = time.RFC3339

	l.writers = append(l.writers, zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	})

	if cfg.LogPath != "" {
		l.writers = append(l.writers, &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
		})
	}

	l.log = zerolog.New(io.MultiWriter(l.writers...)).With().Timestamp().Logger()

	l.SetLogLevel(cfg.LogLevel)

	return l
}

// ParseLevel maps the config log levels to zerolog levels, defaulting to
// debug for anything unknown.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "INFO":
		return zerolog.InfoLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "WARN":
		return zerolog.WarnLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.DebugLevel
	}
}

func (l *DefaultLogger) SetLogLevel(level string) {
	l.level = ParseLevel(level)
	l.log = l.log.Level(l.level)
}

func (l *DefaultLogger) Log() *zerolog.Event {
	return l.log.Log()
}

func (l *DefaultLogger) Fatal() *zerolog.Event {
	return l.log.Fatal()
}

func (l *DefaultLogger) Err(err error) *zerolog.Event {
	return l.log.Err(err)
}

func (l *DefaultLogger) Error() *zerolog.Event {
	return l.log.Error()
}

func (l *DefaultLogger) Warn() *zerolog.Event {
	return l.log.Warn()
}

func (l *DefaultLogger) Info() *zerolog.Event {
	return l.log.Info()
}

func (l *DefaultLogger) Trace() *zerolog.Event {
	return l.log.Trace()
}

func (l *DefaultLogger) Debug() *zerolog.Event {
	return l.log.Debug()
}

// With returns a context for a child logger, e.g. to hand one to a source.
func (l *DefaultLogger) With() zerolog.Context {
	return l.log.With()
}
