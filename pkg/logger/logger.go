// Package logger configures the process-wide logrus logger and hands out
// per-component entries:
//
//	log := logger.For("auth")
//	log.WithField("account_id", id).Info("session issued")
package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Configure sets the level ("debug", "info", ...) and format ("text" or "json")
// of the standard logrus logger.
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	std := logrus.StandardLogger()
	std.SetOutput(os.Stdout)
	std.SetLevel(lvl)

	switch format {
	case "", "text":
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	return nil
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return logrus.StandardLogger().WithField("component", component)
}
