package logger

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"

	"faithkeeper/internal/utils/logger/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type options struct {
	out   io.Writer
	file  string
	level string
}

// Option настройка логгера
type Option func(*options)

// WithWriter направляет вывод в w вместо stdout
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithFile дублирует вывод в файл с ротацией
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithLevel переопределяет уровень окружения (debug, info, warn, error)
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// New создает логгер для окружения: local - цветной вывод, dev и prod - JSON
func New(env string, opts ...Option) *slog.Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	out := o.out
	if o.file != "" {
		out = io.MultiWriter(out, rotatingFile(o.file))
	}

	var log *slog.Logger

	switch env {
	case envLocal:
		log = newPretty(out, levelOr(o.level, slog.LevelDebug))
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelDebug)}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelInfo)}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levelOr(o.level, slog.LevelInfo)}),
		)
	}

	return log
}

func newPretty(out io.Writer, level slog.Leveler) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(out)

	return slog.New(handler)
}

func rotatingFile(path string) io.Writer {
	_ = os.MkdirAll(filepath.Dir(path), 0700)
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

func levelOr(name string, fallback slog.Level) slog.Level {
	if name == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fallback
	}
	return level
}
