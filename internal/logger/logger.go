// Package logger configures the application-wide structured logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"trackboard/internal/config"
)

// Fields is an alias for logrus.Fields to keep call sites terse.
type Fields = logrus.Fields

// New builds a logrus logger from the application configuration.
// In production, output is JSON and rotated on disk via lumberjack;
// elsewhere it is human-readable text on stdout.
func New(cfg *config.Config) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(parseLevel(cfg.LogLevel))

	if cfg.IsProduction() {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogsDirectory, cfg.AppName+".log"),
			MaxSize:    cfg.LogsMaxSizeInMb,
			MaxBackups: cfg.LogsMaxBackups,
			MaxAge:     cfg.LogsMaxAgeInDays,
			Compress:   true,
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotated))
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
		l.SetOutput(os.Stdout)
	}

	return l
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func parseLevel(level config.LogLevel) logrus.Level {
	parsed, err := logrus.ParseLevel(string(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
