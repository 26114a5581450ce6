// Package applog configures the structured logger lcpp's core accepts as
// an optional collaborator, kept out of the core package so tests and
// library callers aren't forced to depend on a particular logging setup.
// Grounded on the teacher's plain fmt/log calls in cmd/sve-as/main.go,
// generalized to leveled, structured logging with
// github.com/sirupsen/logrus.
package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger writing to stderr with level parsed from
// levelName ("trace", "debug", "info", "warn", "error", case
// insensitive). An empty or unrecognized levelName falls back to "info".
func New(levelName string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
