// Package logging configures the process-wide logger. Everything goes to
// stderr because stdout belongs to the plugin wire protocol.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Subsys is the entry field naming the subsystem a message comes from.
const Subsys = "subsys"

// DefaultLogger is the base logger every subsystem logger derives from.
var DefaultLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log
}

// SetDebug toggles debug-level logging process-wide.
func SetDebug(debug bool) {
	if debug {
		DefaultLogger.SetLevel(logrus.DebugLevel)
	} else {
		DefaultLogger.SetLevel(logrus.InfoLevel)
	}
}

// NewLogger returns a logger scoped to the given subsystem.
func NewLogger(subsys string) *logrus.Entry {
	return DefaultLogger.WithField(Subsys, subsys)
}
