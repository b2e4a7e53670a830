package kitz

// CountingIterator wraps any Iterator and counts the values it returns.
// Sizes are taken from the wrapped iterator when it is a CountedIterator
// and can be overridden with WithSize and WithTotalSize.
type CountingIterator[T any] struct {
	it        Iterator[T]
	count     int64
	size      int64
	totalSize int64
	hasSize   bool
	hasTotal  bool
}

// NewCountedIterator wraps it so that it reports a count and, when known,
// its sizes.
//
// Example:
//
//	// A page of 10 out of 1432 search results
//	page := kitz.NewCountedIterator[Hit](kitz.FromSlice(hits)).WithTotalSize(1432)
func NewCountedIterator[T any](it Iterator[T]) *CountingIterator[T] {
	c := &CountingIterator[T]{it: it}
	c.size, c.hasSize = sizeOf(it)
	c.totalSize, c.hasTotal = totalSizeOf(it)
	return c
}

// WithSize declares how many values the iterator will return.
func (c *CountingIterator[T]) WithSize(size int64) *CountingIterator[T] {
	c.size = size
	c.hasSize = true
	return c
}

// WithTotalSize declares the size of the underlying collection.
func (c *CountingIterator[T]) WithTotalSize(total int64) *CountingIterator[T] {
	c.totalSize = total
	c.hasTotal = true
	return c
}

func (c *CountingIterator[T]) Next() (T, error) {
	v, err := c.it.Next()
	if err == nil {
		c.count++
	}
	return v, err
}

func (c *CountingIterator[T]) Count() int64 {
	return c.count
}

func (c *CountingIterator[T]) Size() (int64, bool) {
	return c.size, c.hasSize
}

// TotalSize falls back to Size when no total was declared.
func (c *CountingIterator[T]) TotalSize() (int64, bool) {
	if c.hasTotal {
		return c.totalSize, true
	}
	return c.Size()
}

// Close closes the wrapped iterator.
func (c *CountingIterator[T]) Close() error {
	return Close(c.it)
}
