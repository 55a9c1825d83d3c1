package content

import "github.com/labstack/gommon/log"

// Logger is the subset of the gommon/echo logger used by content loaders.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NewLogger returns a gommon logger with the given prefix, the same logger
// type Echo uses behind c.Logger().
func NewLogger(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetLevel(log.INFO)
	return l
}
