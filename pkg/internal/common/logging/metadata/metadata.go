/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"errors"
	"strings"
	"sync"
)

// Level defines all available log levels for logging messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO // default logging level
	DEBUG
)

const (
	defaultLogLevel   = INFO
	defaultModuleName = ""
)

// levelNames - log level names in string.
var levelNames = []string{ //nolint:gochecknoglobals
	"CRITICAL",
	"ERROR",
	"WARNING",
	"INFO",
	"DEBUG",
}

//nolint:gochecknoglobals
var levels = newModuledLevels()

func newModuledLevels() *moduleLevels {
	return &moduleLevels{levels: make(map[string]Level)}
}

// moduleLevels maintains log levels based on modules.
type moduleLevels struct {
	levels map[string]Level
	mutex  sync.RWMutex
}

// GetLevel returns the log level for given module.
func (l *moduleLevels) GetLevel(module string) Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	level, exists := l.levels[module]
	if !exists {
		level, exists = l.levels[defaultModuleName]
		// no configuration exists, default to info
		if !exists {
			return defaultLogLevel
		}
	}

	return level
}

// SetLevel sets the log level for given module.
func (l *moduleLevels) SetLevel(module string, level Level) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.levels[module] = level
}

// IsEnabledFor will return true if logging is enabled for given module and level.
func (l *moduleLevels) IsEnabledFor(module string, level Level) bool {
	return level <= l.GetLevel(module)
}

// SetLevel sets the log level for given module.
func SetLevel(module string, level Level) {
	levels.SetLevel(module, level)
}

// GetLevel returns the log level for given module.
func GetLevel(module string) Level {
	return levels.GetLevel(module)
}

// IsEnabledFor returns true if logging is enabled for given module and level.
func IsEnabledFor(module string, level Level) bool {
	return levels.IsEnabledFor(module, level)
}

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, level) {
			return Level(i), nil
		}
	}

	return ERROR, errors.New("logger: invalid log level")
}

// ParseString returns string representation of given log level.
func ParseString(level Level) string {
	return levelNames[level]
}
