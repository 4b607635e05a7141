// Package logging builds the zap logger used by the command line tool.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger.
type Options struct {
	// Level is the minimum level to log, e.g. "info" or "debug".
	Level string
	// File, if not empty, is a path to which JSON logs are also written with
	// rotation.
	File string
	// Console is where human-readable logs go. Defaults to os.Stderr.
	Console io.Writer
}

// New creates a logger. The returned function flushes and closes the log
// file; call it before exiting.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleConfig := encoderConfig
	consoleConfig.TimeKey = ""
	consoleConfig.CallerKey = ""

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), level),
	}
	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	done := func() error {
		// Syncing a console that is a terminal fails on some systems, so its
		// error doesn't matter.
		_ = log.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return log, done, nil
}
