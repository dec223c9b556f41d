package core

// Logger is any service the app can log through.
//
// Args may carry anything printable; implementations may treat certain
// types specially (e.g. an authenticated user for error reporting).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
