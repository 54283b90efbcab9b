// logger/logger.go - Structured application logger
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init configures the shared logrus instance. JSON output, level from
// LOG_LEVEL, service name attached to every entry via Get().
func Init() {
	log = logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// Get returns the shared entry with the service field set.
func Get() *logrus.Entry {
	if log == nil {
		Init()
	}
	return log.WithField("service", "oraculo")
}

// WithUser returns an entry tagged with a user id.
func WithUser(userID uint) *logrus.Entry {
	return Get().WithField("user_id", userID)
}
