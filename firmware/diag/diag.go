// Package diag formats one-line diagnostic events for the hal.Logger sink.
package diag

import (
	"fmt"

	"rfpocket/hal"
)

// Log writes tagged lines to a sink. The zero Log discards everything.
type Log struct {
	sink hal.Logger
	tag  string
}

// New returns a Log that prefixes every line with "tag: ".
func New(sink hal.Logger, tag string) Log {
	return Log{sink: sink, tag: tag}
}

// With returns a Log on the same sink with a different tag.
func (l Log) With(tag string) Log {
	return Log{sink: l.sink, tag: tag}
}

// Printf formats and writes one line.
func (l Log) Printf(format string, args ...any) {
	if l.sink == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if l.tag != "" {
		line = l.tag + ": " + line
	}
	l.sink.WriteLineString(line)
}
