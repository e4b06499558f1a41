// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package logger provides the logging capability for kithkit commands and
// libraries, backed by a zap global logger.
package logger

import (
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kithkit/kithkit-core/env"
)

// Debugf logs a message at debug level using the singleton logger.
func Debugf(msg string, args ...any) {
	zap.S().Debugf(msg, args...)
}

// Debugw logs a message at debug level using the singleton logger with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	zap.S().Debugw(msg, keysAndValues...)
}

// Infof logs a message at info level using the singleton logger.
func Infof(msg string, args ...any) {
	zap.S().Infof(msg, args...)
}

// Infow logs a message at info level using the singleton logger with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	zap.S().Infow(msg, keysAndValues...)
}

// Warnf logs a message at warning level using the singleton logger.
func Warnf(msg string, args ...any) {
	zap.S().Warnf(msg, args...)
}

// Warnw logs a message at warning level using the singleton logger with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	zap.S().Warnw(msg, keysAndValues...)
}

// Errorf logs a message at error level using the singleton logger.
func Errorf(msg string, args ...any) {
	zap.S().Errorf(msg, args...)
}

// Errorw logs a message at error level using the singleton logger with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	zap.S().Errorw(msg, keysAndValues...)
}

// DebugProvider is an interface for checking if debug mode is enabled.
// This allows commands to plug in their own debug flag implementation.
type DebugProvider interface {
	IsDebug() bool
}

// defaultDebugProvider provides a default implementation that returns false.
type defaultDebugProvider struct{}

func (*defaultDebugProvider) IsDebug() bool {
	return false
}

// Initialize creates and configures the global logger using the default
// debug provider. If UNSTRUCTURED_LOGS is unset, truthy or not a boolean,
// output is human-readable on stderr; if it parses as false, structured
// JSON on stdout.
func Initialize() {
	InitializeWithOptions(&env.OSReader{}, &defaultDebugProvider{})
}

// InitializeWithDebug creates and configures the logger with a custom debug provider.
func InitializeWithDebug(debugProvider DebugProvider) {
	InitializeWithOptions(&env.OSReader{}, debugProvider)
}

// InitializeWithOptions creates and configures the logger with custom
// environment reader and debug provider. This provides full control over
// logger configuration for both testing and production use.
func InitializeWithOptions(envReader env.Reader, debugProvider DebugProvider) {
	var config zap.Config
	if unstructuredLogsWithEnv(envReader) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.OutputPaths = []string{"stderr"}
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
	}

	if debugProvider.IsDebug() {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zap.ReplaceGlobals(zap.Must(config.Build()))
}

func unstructuredLogsWithEnv(envReader env.Reader) bool {
	unstructuredLogs, err := strconv.ParseBool(envReader.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		// env var unset or not a bool; default to unstructured output
		return true
	}
	return unstructuredLogs
}
