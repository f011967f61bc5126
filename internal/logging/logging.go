// Package logging owns the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(os.Stdout)
	return l
}

// Get returns the shared logger.
func Get() *logrus.Logger {
	return logg
}

// Configure applies level ("debug", "info", ...) and format ("json" or
// "text") to the shared logger. An unknown level keeps the current one.
func Configure(level, format string, out io.Writer) *logrus.Logger {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		logg.SetLevel(lvl)
	}
	if strings.EqualFold(format, "text") {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logg.SetFormatter(&logrus.JSONFormatter{})
	}
	if out != nil {
		logg.SetOutput(out)
	}
	return logg
}

// LogError records a failed operation with the module and function it came from.
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
