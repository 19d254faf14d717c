package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultFile is the log file written next to the console output
	DefaultFile = "test-output.log"
	// DefaultLevel is used when no level or an unknown level is given
	DefaultLevel = "info"
)

// Config holds the settings for a run's logger
type Config struct {
	// Valid levels: debug, info, warn, error, dpanic, panic, fatal
	Level string
	// File is the path of the rolling log file, empty disables it
	File string
	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep
	MaxBackups int
	// Console is where the human readable output goes, defaults to stdout
	Console io.Writer
}

// Logger is the logger of a single run. It echoes every entry to the console
// and, when configured, to a rolling log file.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
	file *lumberjack.Logger
}

// New builds a logger for the given configuration
func New(cfg Config) *Logger {
	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(cfg.Level)); err != nil || cfg.Level == "" {
		zapLevel = zap.InfoLevel // Default to info level
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(console),
			zapLevel,
		),
	}

	l := &Logger{}
	if cfg.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(l.file),
			zapLevel,
		))
	}

	l.base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	l.SugaredLogger = l.base.Sugar()
	return l
}

// Sync flushes any buffered log entries and closes the log file
func (l *Logger) Sync() error {
	// stdout can't be synced on every platform, the error is not actionable
	_ = l.base.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
