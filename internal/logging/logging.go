package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Log is the process-wide logger. Init configures it from settings.
var Log = logrus.New()

func Init(level string, environment string) *logrus.Logger {
	Configure(Log, os.Stdout, level, environment)
	Log.Debugf("log level set to %s for %s", Log.GetLevel(), environment)
	return Log
}

func Configure(logger *logrus.Logger, output io.Writer, level string, environment string) {
	logger.SetOutput(output)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.Warnf("invalid log level %q, defaulting to info", level)
	} else {
		logger.SetLevel(parsed)
	}

	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "staging":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

// GormLogger routes slow-query and error reports from GORM through logrus.
func GormLogger(logger *logrus.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
