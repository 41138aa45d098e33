package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger behind the printf-style surface the
// rest of the project logs through.
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

var (
	defaultLogger *Logger
	once          sync.Once
)

type Config struct {
	Level      zapcore.Level
	Colorize   bool
	ShowCaller bool
	TimeFormat string
	Output     io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:      zapcore.InfoLevel,
		Colorize:   true,
		ShowCaller: false,
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stdout,
	}
}

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "2006-01-02 15:04:05"
	}

	level := zap.NewAtomicLevelAt(cfg.Level)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	if cfg.Colorize {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(cfg.Output),
		level,
	)

	var opts []zap.Option
	if cfg.ShowCaller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	return &Logger{
		sugar: zap.New(core, opts...).Sugar(),
		level: level,
	}
}

// GetLogger returns the process-wide logger, creating it on first use.
// LOG_LEVEL overrides the default level (DEBUG, INFO, WARN, ERROR).
func GetLogger() *Logger {
	once.Do(func() {
		cfg := DefaultConfig()
		if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
			switch strings.ToUpper(envLevel) {
			case "DEBUG":
				cfg.Level = zapcore.DebugLevel
			case "INFO":
				cfg.Level = zapcore.InfoLevel
			case "WARN":
				cfg.Level = zapcore.WarnLevel
			case "ERROR":
				cfg.Level = zapcore.ErrorLevel
			}
		}
		defaultLogger = New(cfg)
	})
	return defaultLogger
}

func (l *Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// Sync flushes buffered entries. Callers may ignore the error on stdout.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Fatalf logs the message and exits the process.
func (l *Logger) Fatalf(format string, args ...any) {
	l.sugar.Fatalf(format, args...)
}

// Package-level convenience functions using the default logger.

func Debugf(format string, args ...any) {
	GetLogger().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	GetLogger().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	GetLogger().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	GetLogger().Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	GetLogger().Fatalf(format, args...)
}

func SetLevel(level zapcore.Level) {
	GetLogger().SetLevel(level)
}
