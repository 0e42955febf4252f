//go:build !deadlock
// +build !deadlock

// Package sync provides the lock primitive used across the module and Cell,
// a shared, mutex-guarded value with copy-in/copy-out accessors.
package sync

import "sync"

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}
