// Package log wraps logrus with the small set of level-named helpers the
// rest of the tree calls, so call sites never import logrus directly.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
}

// LogLevel mirrors the teacher's own exported level type so config can
// reference it without pulling in logrus.
type LogLevel = logrus.Level

const (
	DebugLevel  = logrus.DebugLevel
	InfoLevel   = logrus.InfoLevel
	WarnLevel   = logrus.WarnLevel
	ErrorLevel  = logrus.ErrorLevel
	SilentLevel = logrus.PanicLevel
)

func SetLevel(level LogLevel) {
	logger.SetLevel(level)
}

func Debugln(format string, v ...any) {
	logger.Debugf(format, v...)
}

func Infoln(format string, v ...any) {
	logger.Infof(format, v...)
}

func Warnln(format string, v ...any) {
	logger.Warnf(format, v...)
}

func Errorln(format string, v ...any) {
	logger.Errorf(format, v...)
}

func Fatalln(format string, v ...any) {
	logger.Fatalf(format, v...)
}
