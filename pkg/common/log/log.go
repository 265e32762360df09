/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package log implements a generic string logger for fmt-style log messages intended for developers & debugging.
package log

import (
	"sync"

	"github.com/docmodel/webidentity/pkg/internal/common/logging/metadata"
	"github.com/docmodel/webidentity/pkg/internal/common/logging/modlog"
)

// Level defines all available log levels for logging messages.
type Level = metadata.Level

// Log levels.
const (
	CRITICAL = metadata.CRITICAL
	ERROR    = metadata.ERROR
	WARNING  = metadata.WARNING
	INFO     = metadata.INFO
	DEBUG    = metadata.DEBUG
)

// Logger - Standard logger interface.
type Logger = modlog.Logger

// LoggerProvider is a factory for moduled loggers.
type LoggerProvider interface {
	GetLogger(module string) Logger
}

//nolint:gochecknoglobals
var (
	loggerProviderInstance LoggerProvider
	loggerProviderOnce     sync.Once
)

// Log is an implementation of Logger interface.
// It encapsulates default or custom logger to provide module and level based logging.
type Log struct {
	instance Logger
	module   string
	once     sync.Once
}

// New creates and returns a Logger implementation based on given module name.
// note: the underlying logger instance is lazy initialized on first use.
// To use your own logger implementation provide logger provider in 'Initialize()' before logging any line.
// If 'Initialize()' is not called before logging any line then default logging implementation will be used.
func New(module string) *Log {
	return &Log{module: module}
}

// Initialize sets new custom logging provider which takes over logging operations.
// It is required to be called before any logging for custom logging provider to take effect.
func Initialize(l LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = l
	})
}

// Fatalf calls Fatalf function of underlying logger
// should possibly cause system shutdown based on implementation.
func (l *Log) Fatalf(msg string, args ...interface{}) {
	l.logger().Fatalf(msg, args...)
}

// Panicf calls Panic function of underlying logger
// should possibly cause panic based on implementation.
func (l *Log) Panicf(msg string, args ...interface{}) {
	l.logger().Panicf(msg, args...)
}

// Debugf calls Debugf function of underlying logger.
func (l *Log) Debugf(msg string, args ...interface{}) {
	l.logger().Debugf(msg, args...)
}

// Infof calls Infof function of underlying logger.
func (l *Log) Infof(msg string, args ...interface{}) {
	l.logger().Infof(msg, args...)
}

// Warnf calls Warnf function of underlying logger.
func (l *Log) Warnf(msg string, args ...interface{}) {
	l.logger().Warnf(msg, args...)
}

// Errorf calls Errorf function of underlying logger.
func (l *Log) Errorf(msg string, args ...interface{}) {
	l.logger().Errorf(msg, args...)
}

func (l *Log) logger() Logger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})

	return l.instance
}

func loggerProvider() LoggerProvider {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = &defProvider{}
	})

	return loggerProviderInstance
}

type defProvider struct{}

func (p *defProvider) GetLogger(module string) Logger {
	return modlog.NewModLog(module)
}

// SetLevel - setting log level for given module
// If not set default logging level is info.
func SetLevel(module string, level Level) {
	metadata.SetLevel(module, level)
}

// GetLevel - getting log level for given module
// If not set default logging level is info.
func GetLevel(module string) Level {
	return metadata.GetLevel(module)
}

// IsEnabledFor - Check if given log level is enabled for given module
// If not set default logging level is info.
func IsEnabledFor(module string, level Level) bool {
	return metadata.IsEnabledFor(module, level)
}

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	return metadata.ParseLevel(level)
}
