package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

// SetOutput redirects all logs to w.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
}

// Enable reverts a previous call to Disable.
func Enable() {
	disabled = false
}

// Context is implemented by components willing to add fields to every log
// entry (the current scanline, the frame number...).
type Context interface {
	AddLogContext(z *EntryZ)
}

var contexts []Context

// AddContext registers c so that its fields are added to all log entries.
func AddContext(c Context) {
	contexts = append(contexts, c)
}

// ResetContexts unregisters all contexts.
func ResetContexts() {
	contexts = nil
}
