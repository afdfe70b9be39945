package logger

import (
	"os"
	"strings"
	"sync"

	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// GetLogger returns the process logger, configured from LOG_LEVEL and LOG_FORMAT on first use.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = NewLogger(
			environment_variables.EnvironmentVariables.LOG_LEVEL,
			environment_variables.EnvironmentVariables.LOG_FORMAT,
		)
	})
	return logger
}

func NewLogger(level string, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if strings.ToLower(format) == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return l
}
