// Package logger provides leveled console logging for the todo-tracking API.
package logger

import (
	"os"

	"github.com/op/go-logging"
)

const timeFormat = "2006/01/02 15:04:05"

var logger *logging.Logger

func init() {
	InitLogger(logging.INFO)
}

// InitLogger configures the console backend with the given level.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger("todo-api")

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level} - %{message}`)
	formatted := logging.NewBackendFormatter(backend, format)

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "todo-api")

	newLogger.SetBackend(leveled)
	logger = newLogger
}

// ParseLevel maps a config string to a logging level, defaulting to INFO.
func ParseLevel(s string) logging.Level {
	level, err := logging.LogLevel(s)
	if err != nil {
		return logging.INFO
	}
	return level
}

func Debug(args ...interface{}) {
	logger.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Info(args ...interface{}) {
	logger.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Warning(args ...interface{}) {
	logger.Warning(args...)
}

func Warningf(format string, args ...interface{}) {
	logger.Warningf(format, args...)
}

func Error(args ...interface{}) {
	logger.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
