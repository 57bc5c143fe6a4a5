package aerobot

import (
	"fmt"
	"log"
)

// SLogger is the internal logging interface of the bot and its plugins. The standard library
// logger wrapped with NewSLogger as well as a logrus logger implement it
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger   *log.Logger
	debug    bool
	delegate SLogger
}

// NewSLogger creates a new logger writing to a standard library logger. Debug lines are only
// written when debug is true
func NewSLogger(log *log.Logger, debug bool) (l *sLogger) {
	return &sLogger{logger: log, debug: debug}
}

// wrapSLogger makes any SLogger usable as the bot's internal logger. The delegate filters
// its own debug lines
func wrapSLogger(delegate SLogger) (l *sLogger) {
	return &sLogger{delegate: delegate}
}

// Debugf logs a debug line after checking if the logger is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.delegate != nil {
		sl.delegate.Debugf(format, v...)
		return
	}

	if sl.debug {
		sl.logger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Printf logs a line by delegating the call to Output
func (sl *sLogger) Printf(format string, v ...interface{}) {
	if sl.delegate != nil {
		sl.delegate.Printf(format, v...)
		return
	}

	sl.logger.Output(2, fmt.Sprintf(format, v...))
}
