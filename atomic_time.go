package kitz

import (
	"sync/atomic"
	"time"
)

// AtomicTime holds a time.Time that can be read and written without locks.
// The value is kept as Unix nanoseconds; the zero value means "never set".
type AtomicTime struct {
	nanos atomic.Int64
}

// Store atomically stores a time value. Storing the zero time clears it.
func (at *AtomicTime) Store(t time.Time) {
	if t.IsZero() {
		at.nanos.Store(0)
		return
	}
	at.nanos.Store(t.UnixNano())
}

// Advance stores t only if it is later than the current value, so
// concurrent writers can never move the time backwards.
func (at *AtomicTime) Advance(t time.Time) {
	next := t.UnixNano()
	for {
		cur := at.nanos.Load()
		if cur >= next {
			return
		}
		if at.nanos.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Load atomically loads the time value.
func (at *AtomicTime) Load() time.Time {
	nanos := at.nanos.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// IsZero returns true if no time was ever stored.
func (at *AtomicTime) IsZero() bool {
	return at.nanos.Load() == 0
}
