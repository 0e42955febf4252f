package log

type nopLogger struct{}

// NewNopLogger returns the default logger of a Cell, which discards
// everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (l nopLogger) With(...any) Logger { return l }
func (nopLogger) Impl() any            { return nil }
