package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured from the LOG_LEVEL environment variable
// (info when unset or invalid).
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
