package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development gets colored
// text at debug level; every other env logs JSON at info. LOG_LEVEL overrides.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// LogError, LogWarn and LogInfo keep a unified logging interface for handlers.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logAt(logger, logrus.ErrorLevel, msg, err, fields)
}

func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logAt(logger, logrus.WarnLevel, msg, err, fields)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	logAt(logger, logrus.InfoLevel, msg, nil, fields)
}

// logAt copies fields so callers can reuse their map across calls.
func logAt(logger *logrus.Logger, level logrus.Level, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	f := make(logrus.Fields, len(fields)+1)
	for k, v := range fields {
		f[k] = v
	}
	if err != nil {
		f["error"] = err.Error()
	}
	logger.WithFields(f).Log(level, msg)
}
