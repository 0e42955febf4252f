package sync

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/cometbft/sharedcell/libs/log"
)

// Cloner is implemented by values that must be deep-copied when they enter or
// leave a Cell.
type Cloner[T any] interface {
	Clone() T
}

// Cell is a handle to a value shared between goroutines and guarded by a
// Mutex. Copies of a Cell, including those returned by Clone, refer to the
// same value and lock.
//
// Every accessor holds the lock only while the value is copied in or out, so
// a caller never holds it across its own code. A panic raised while the lock
// is held (e.g. by a Clone method) poisons the cell for good: Read and Write
// panic with the *PoisonError, ReadResult and WriteResult return it.
//
// The zero Cell is not usable; create one with NewCell, CellFrom or
// DefaultCell.
type Cell[T any] struct {
	s *cellState[T]
}

type cellState[T any] struct {
	mtx   Mutex
	value T

	poison atomic.Pointer[PoisonError]

	clone   func(T) T
	logger  log.Logger
	metrics *Metrics
}

// NewCell returns a handle to a new, healthy cell holding value. The cell
// takes ownership of value; later copies in and out go through the clone
// function.
func NewCell[T any](value T, options ...CellOption[T]) Cell[T] {
	cfg := cellConfig[T]{
		clone:   defaultClone[T],
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
	}
	for _, option := range options {
		option(&cfg)
	}

	s := &cellState[T]{
		value:   value,
		clone:   cfg.clone,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
	if cfg.name != "" {
		s.logger = s.logger.With("cell", cfg.name)
	}
	return Cell[T]{s: s}
}

// CellFrom converts value into a Cell. It is NewCell without options.
func CellFrom[T any](value T) Cell[T] {
	return NewCell(value)
}

// DefaultCell returns a cell holding the zero value of T.
func DefaultCell[T any]() Cell[T] {
	var zero T
	return NewCell(zero)
}

func defaultClone[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// Clone returns a new handle to the same cell.
func (c Cell[T]) Clone() Cell[T] {
	return Cell[T]{s: c.state()}
}

// Same reports whether c and other refer to the same cell.
func (c Cell[T]) Same(other Cell[T]) bool {
	return c.s != nil && c.s == other.s
}

// Read returns a copy of the guarded value. It panics with a *PoisonError if
// the cell is poisoned.
func (c Cell[T]) Read() T {
	v, err := c.ReadResult()
	if err != nil {
		panic(err)
	}
	return v
}

// Write replaces the guarded value with a copy of value. It panics with a
// *PoisonError if the cell is poisoned.
func (c Cell[T]) Write(value T) {
	if err := c.WriteResult(value); err != nil {
		panic(err)
	}
}

// ReadResult is like Read, but returns the zero T and the *PoisonError
// instead of panicking.
func (c Cell[T]) ReadResult() (T, error) {
	s := c.state()
	var v T
	err := s.access("read", false, func() {
		v = s.clone(s.value)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// WriteResult is like Write, but returns the *PoisonError instead of
// panicking. The guarded value is unchanged when an error is returned.
func (c Cell[T]) WriteResult(value T) error {
	s := c.state()
	return s.access("write", false, func() {
		s.value = s.clone(value)
	})
}

// IsPoisoned reports whether a holder of the lock panicked or exited its
// goroutine before releasing it.
func (c Cell[T]) IsPoisoned() bool {
	return c.state().poison.Load() != nil
}

// String formats a copy of the value, also when the cell is poisoned.
func (c Cell[T]) String() string {
	s := c.state()
	var v T
	_ = s.access("string", true, func() {
		v = s.clone(s.value)
	})
	return fmt.Sprintf("Cell{data: %v, poisoned: %t}", v, s.poison.Load() != nil)
}

func (c Cell[T]) state() *cellState[T] {
	if c.s == nil {
		panic("sync: use of uninitialized Cell")
	}
	return c.s
}

// access runs f with the lock held. The lock is always released before
// access returns or panics.
func (s *cellState[T]) access(op string, allowPoisoned bool, f func()) error {
	start := time.Now()
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.metrics.LockWaitSeconds.Observe(time.Since(start).Seconds())
	s.metrics.Accesses.With("op", op).Add(1)

	if perr := s.poison.Load(); perr != nil && !allowPoisoned {
		s.metrics.PoisonedAccesses.With("op", op).Add(1)
		return perr
	}

	// Runs before the unlock above, so the cell is marked before another
	// goroutine can acquire the lock.
	done := false
	defer s.recoverPoison(op, &done)
	f()
	done = true
	return nil
}

// recoverPoison poisons the cell unless f completed. A nil recover means the
// goroutine is exiting through runtime.Goexit, which is left to proceed.
func (s *cellState[T]) recoverPoison(op string, done *bool) {
	if *done {
		return
	}
	r := recover()
	perr := newPoisonError(op, r, debug.Stack())
	if s.poison.CompareAndSwap(nil, perr) {
		s.metrics.Poisonings.Add(1)
		s.logger.Error("Lock holder aborted, cell is poisoned", "err", perr)
	}
	if r != nil {
		panic(r)
	}
}
