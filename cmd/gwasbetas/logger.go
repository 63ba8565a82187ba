package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// verbosityLevel maps numeric verbosity (10 debug, 20 info, 30 warning) onto
// zap levels.
func verbosityLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 10:
		return zapcore.DebugLevel
	case verbosity <= 20:
		return zapcore.InfoLevel
	case verbosity <= 30:
		return zapcore.WarnLevel
	}

	return zapcore.ErrorLevel
}

func newLogger(verbosity int) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(verbosityLevel(verbosity))
	config.Development = false
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}
