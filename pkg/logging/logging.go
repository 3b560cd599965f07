// Package logging gates the bracketed level tags used with the standard logger.
package logging

import (
	"log"
	"strings"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetLevel enables [DEBUG] output when level is "debug"
func SetLevel(level string) {
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

// DebugEnabled reports whether [DEBUG] lines are written
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf logs a [DEBUG] line when debug logging is enabled
func Debugf(format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}
