// internal/infra/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init initializes the global logger based on application configuration.
// The log file is opened append-only and mirrored to stdout, so the full
// history survives restarts while the console stays readable.
func Init(cfg *config.AppConfig) error {
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("could not open log file %s: %w", cfg.LogFile, err)
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, file))

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'debug'. Error: %v", cfg.LogLevel, err)
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(level)
	}

	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	Log.Debugf("Log level set to: %s, log file: %s", Log.GetLevel().String(), cfg.LogFile)
	return nil
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}
