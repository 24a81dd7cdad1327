//go:build !tinygo

package hal

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// hostLogger forwards firmware diagnostic lines to logrus. A leading
// "component: " tag becomes a structured field.
type hostLogger struct {
	log *logrus.Logger
}

func newHostLogger(w io.Writer) *hostLogger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = logrus.InfoLevel
	l.Out = w
	return &hostLogger{log: l}
}

func (l *hostLogger) WriteLineString(s string) {
	if tag, msg, ok := strings.Cut(s, ": "); ok && tag != "" && !strings.ContainsAny(tag, " \t") {
		l.log.WithField("component", tag).Info(msg)
		return
	}
	l.log.Info(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}
