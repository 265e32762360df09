/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"fmt"
	"log"
	"os"

	"github.com/docmodel/webidentity/pkg/internal/common/logging/metadata"
)

// Logger - Standard logger interface.
type Logger interface {

	// Fatalf is critical fatal logging, should possibly followed by a call to os.Exit(1)
	Fatalf(msg string, args ...interface{})

	// Panicf is critical logging, should possibly followed by panic
	Panicf(msg string, args ...interface{})

	// Debugf is for logging verbose messages
	Debugf(msg string, args ...interface{})

	// Infof for logging general logging messages
	Infof(msg string, args ...interface{})

	// Warnf is for logging messages about possible issues
	Warnf(msg string, args ...interface{})

	// Errorf is for logging errors
	Errorf(msg string, args ...interface{})
}

// NewModLog returns a moduled logger backed by the standard go log library.
func NewModLog(module string) Logger {
	return &modLog{
		logger: log.New(os.Stdout, fmt.Sprintf(logPrefixFormatter, module), log.Ldate|log.Ltime|log.LUTC),
		module: module,
	}
}

const logPrefixFormatter = " [%s] "

// modLog is a moduled wrapper of the go standard logger which filters log
// lines by the level configured for its module.
type modLog struct {
	logger *log.Logger
	module string
}

// Fatalf calls underlying logger.Fatalf.
func (l *modLog) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(l.decorate(metadata.CRITICAL, format), args...)
}

// Panicf calls underlying logger.Panicf.
func (l *modLog) Panicf(format string, args ...interface{}) {
	l.logger.Panicf(l.decorate(metadata.CRITICAL, format), args...)
}

// Debugf calls underlying logger.Printf if DEBUG is enabled for the module.
func (l *modLog) Debugf(format string, args ...interface{}) {
	l.logf(metadata.DEBUG, format, args...)
}

// Infof calls underlying logger.Printf if INFO is enabled for the module.
func (l *modLog) Infof(format string, args ...interface{}) {
	l.logf(metadata.INFO, format, args...)
}

// Warnf calls underlying logger.Printf if WARNING is enabled for the module.
func (l *modLog) Warnf(format string, args ...interface{}) {
	l.logf(metadata.WARNING, format, args...)
}

// Errorf calls underlying logger.Printf if ERROR is enabled for the module.
func (l *modLog) Errorf(format string, args ...interface{}) {
	l.logf(metadata.ERROR, format, args...)
}

func (l *modLog) logf(level metadata.Level, format string, args ...interface{}) {
	if !metadata.IsEnabledFor(l.module, level) {
		return
	}

	l.logger.Printf(l.decorate(level, format), args...)
}

func (l *modLog) decorate(level metadata.Level, format string) string {
	return fmt.Sprintf("%s %s", metadata.ParseString(level), format)
}
