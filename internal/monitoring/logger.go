package monitoring

import "log"

// Logf is the package-level diagnostic logger used across the analysis
// packages. It defaults to log.Printf; callers embedding the engine can
// redirect it with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger,
// which is useful for muting output in tests.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
