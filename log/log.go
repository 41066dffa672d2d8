// Package log provides the logger used by sigraph hosts.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug output.
const DebugEnv = "SIGRAPH_DEBUG"

var debug bool

// Logger is a global interface for sigraph loggers
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// SetDebug overrides the debug flag read from the environment. It affects
// loggers returned by subsequent GetLogger calls.
func SetDebug(v bool) {
	debug = v
}
