package kitz

// LazyIterator defers creating its source until the first value is
// requested.
type LazyIterator[T any] struct {
	supplier func() (Iterator[T], error)
	it       Iterator[T]
	err      error
	count    int64
}

// NewLazyIterator returns an iterator that calls supplier on the first
// call to Next. An error from supplier is returned by that and every
// following call.
//
// Example:
//
//	// The query only runs if somebody actually iterates
//	results := kitz.NewLazyIterator(func() (kitz.Iterator[Row], error) {
//		return runQuery(ctx, q)
//	})
func NewLazyIterator[T any](supplier func() (Iterator[T], error)) *LazyIterator[T] {
	return &LazyIterator[T]{supplier: supplier}
}

func (l *LazyIterator[T]) Next() (T, error) {
	if l.err != nil {
		var zero T
		return zero, l.err
	}
	if l.it == nil {
		it, err := l.supplier()
		if err != nil {
			l.err = err
			var zero T
			return zero, err
		}
		if it == nil {
			it = Empty[T]()
		}
		l.it = it
	}

	v, err := l.it.Next()
	if err == nil {
		l.count++
	}
	return v, err
}

// Initialized reports whether the supplier has been called.
func (l *LazyIterator[T]) Initialized() bool {
	return l.it != nil || l.err != nil
}

func (l *LazyIterator[T]) Count() int64 {
	return l.count
}

// Size is unknown until the source has been created.
func (l *LazyIterator[T]) Size() (int64, bool) {
	if l.it == nil {
		return 0, false
	}
	return sizeOf(l.it)
}

func (l *LazyIterator[T]) TotalSize() (int64, bool) {
	if l.it == nil {
		return 0, false
	}
	return totalSizeOf(l.it)
}

// Close closes the source if it was created.
func (l *LazyIterator[T]) Close() error {
	if l.it == nil {
		return nil
	}
	return Close(l.it)
}
