package sync

import (
	"github.com/cometbft/sharedcell/libs/log"
)

type cellConfig[T any] struct {
	logger  log.Logger
	metrics *Metrics
	name    string
	clone   func(T) T
}

// CellOption sets an optional parameter on a Cell. Nil arguments leave the
// default in place.
type CellOption[T any] func(*cellConfig[T])

// WithLogger sets the logger used to report poisoning.
func WithLogger[T any](logger log.Logger) CellOption[T] {
	return func(c *cellConfig[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics.
func WithMetrics[T any](metrics *Metrics) CellOption[T] {
	return func(c *cellConfig[T]) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithName names the cell in log lines.
func WithName[T any](name string) CellOption[T] {
	return func(c *cellConfig[T]) { c.name = name }
}

// WithCloneFunc sets the function used to copy values into and out of the
// cell. It takes precedence over a Clone method on T.
func WithCloneFunc[T any](clone func(T) T) CellOption[T] {
	return func(c *cellConfig[T]) {
		if clone != nil {
			c.clone = clone
		}
	}
}
