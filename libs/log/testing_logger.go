package log

import (
	"os"
	"testing"
)

// TestingLogger returns a Logger which writes to STDOUT if tests are being
// run with the verbose (-v) flag, NopLogger otherwise.
//
// Note that the call to TestingLogger() must be made inside a test (not in
// the init func) because verbose flag only set at the time of testing.
func TestingLogger() Logger {
	if testing.Verbose() {
		return NewLogger(os.Stdout)
	}
	return NewNopLogger()
}
