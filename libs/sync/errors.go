package sync

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/cometbft/sharedcell/libs/log"
)

// ErrPoisoned is matched by every error returned or raised from a poisoned
// Cell.
var ErrPoisoned = errors.New("cell lock poisoned")

// ErrGoexit is the PoisonError.Err of a cell whose lock holder called
// runtime.Goexit.
var ErrGoexit = errors.New("goroutine exited while holding the lock")

// PoisonError describes the abort that poisoned a Cell. A Cell keeps the
// first PoisonError for the rest of its life.
type PoisonError struct {
	// Op is the access that was running when the holder aborted.
	Op string
	// Value is the value passed to panic, nil after runtime.Goexit.
	Value any
	// Err is Value as an error.
	Err error
	// Stack of the aborting goroutine.
	Stack []byte
}

func newPoisonError(op string, r any, stack []byte) *PoisonError {
	var err error
	switch v := r.(type) {
	case nil:
		err = ErrGoexit
	case error:
		err = v
	default:
		err = errors.Errorf("%v", v)
	}
	return &PoisonError{Op: op, Value: r, Err: err, Stack: stack}
}

func (e *PoisonError) Error() string {
	return fmt.Sprintf("%s: panic during %s: %v", ErrPoisoned, e.Op, e.Err)
}

// Unwrap returns ErrPoisoned and the panic error.
func (e *PoisonError) Unwrap() []error {
	return []error{ErrPoisoned, e.Err}
}

// Cause returns the panic error.
func (e *PoisonError) Cause() error {
	return e.Err
}

// LogValue renders the error as a group. Loggers above debug level drop the
// stack.
func (e *PoisonError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("op", e.Op),
		slog.String("panic", e.Err.Error()),
		slog.String(log.StackKey, string(e.Stack)),
	)
}
