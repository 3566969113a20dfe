// Package logging configures the process-wide logrus logger from the
// application configuration.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/seenimoa/europulse/internal/config"
)

// Setup applies level, format and output settings to the standard
// logrus logger and returns it.
func Setup(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, rotating))
	}

	return logger
}

// Component returns a logger entry tagged with a component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
