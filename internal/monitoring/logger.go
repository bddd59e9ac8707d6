// Package monitoring carries the process-wide diagnostic logger. Hot paths
// that must not block or fail on logging problems (the robot link fan-out,
// stored-row decoding in db) report anomalies through Logf; tests silence
// them with SetLogger(nil).
package monitoring

import "log"

// Logf emits one diagnostic line. It defaults to log.Printf.
var Logf = log.Printf

// SetLogger replaces the diagnostic sink. A nil sink discards diagnostics.
func SetLogger(fn func(format string, args ...interface{})) {
	if fn == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = fn
}
