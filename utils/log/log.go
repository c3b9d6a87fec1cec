package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var atom = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = atom
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	zap.ReplaceGlobals(logger)
}

// SetLevel adjusts the minimum level emitted by the global logger.
func SetLevel(level Level) {
	switch level {
	case DEBUG:
		atom.SetLevel(zapcore.DebugLevel)
	case INFO:
		atom.SetLevel(zapcore.InfoLevel)
	case WARNING:
		atom.SetLevel(zapcore.WarnLevel)
	case ERROR:
		atom.SetLevel(zapcore.ErrorLevel)
	case FATAL:
		atom.SetLevel(zapcore.FatalLevel)
	}
}

func Debug(format string, args ...interface{}) {
	zap.S().Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	zap.S().Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	zap.S().Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	zap.S().Errorf(format, args...)
}

func Fatal(format string, args ...interface{}) {
	zap.S().Fatalf(format, args...)
}
