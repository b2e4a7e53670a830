package kitz

import (
	"errors"
	"sync"
)

// CloseableIterator attaches a release function to an iterator, for
// example a database cursor or an HTTP response body.
type CloseableIterator[T any] struct {
	it      Iterator[T]
	closeFn func() error
	err     error
	once    sync.Once
	mu      sync.Mutex
	count   int64
	closed  bool
}

// NewCloseableIterator returns an iterator that runs closeFn, and then
// closes it when it is itself closeable, the first time Close is called.
// closeFn may be nil.
//
// Example:
//
//	rows, _ := db.QueryContext(ctx, query)
//	it := kitz.NewCloseableIterator[Row](scanRows(rows), rows.Close)
//	defer it.Close()
func NewCloseableIterator[T any](it Iterator[T], closeFn func() error) *CloseableIterator[T] {
	return &CloseableIterator[T]{it: it, closeFn: closeFn}
}

// Next returns ErrClosed once the iterator has been closed.
func (c *CloseableIterator[T]) Next() (T, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		var zero T
		return zero, ErrClosed
	}
	v, err := c.it.Next()
	if err == nil {
		c.count++
	}
	return v, err
}

// Close releases the iterator. Later calls return the result of the first.
func (c *CloseableIterator[T]) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		var errs []error
		if c.closeFn != nil {
			errs = append(errs, c.closeFn())
		}
		errs = append(errs, Close(c.it))
		c.err = errors.Join(errs...)
	})
	return c.err
}

func (c *CloseableIterator[T]) Count() int64 {
	return c.count
}

func (c *CloseableIterator[T]) Size() (int64, bool) {
	return sizeOf(c.it)
}

func (c *CloseableIterator[T]) TotalSize() (int64, bool) {
	return totalSizeOf(c.it)
}
