package keysink

import (
	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
)

// Logger is a sink only logging key events.
type Logger struct {
	Keys KeyMap
	// Logf defaults to glog.Infof.
	Logf func(format string, args ...interface{})
}

// NewLogger creates a Logger.
func NewLogger(keys KeyMap) *Logger {
	return &Logger{Keys: keys, Logf: glog.Infof}
}

// Press implements buttons.KeySink.
func (l *Logger) Press(b buttons.Button) error {
	l.logf("key %d (%s) down", l.Keys.Code(b), b)
	return nil
}

// Release implements buttons.KeySink.
func (l *Logger) Release(b buttons.Button) error {
	l.logf("key %d (%s) up", l.Keys.Code(b), b)
	return nil
}

// Close implements io.Closer.
func (l *Logger) Close() error {
	return nil
}

func (l *Logger) logf(format string, args ...interface{}) {
	if l.Logf != nil {
		l.Logf(format, args...)
		return
	}
	glog.Infof(format, args...)
}
