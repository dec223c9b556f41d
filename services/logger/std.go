package logsvc

import (
	"log"
	"os"

	"github.com/alphauniversity/portal/core"
)

// StdLogger logs to a standard library logger; the default in development.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(prefix string) *StdLogger {
	return &StdLogger{std: log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)}
}

// Std exposes the underlying standard logger for wrapping loggers to share.
func (l StdLogger) Std() *log.Logger { return l.std }

func (l StdLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
