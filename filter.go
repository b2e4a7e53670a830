package kitz

// FilteringIterator passes on only the values that match a predicate.
//
// Filtering a large source can take a long time between two returned
// values. A keep-alive callback lets the caller do something useful while
// values are being skipped, such as writing whitespace to a streaming
// HTTP response so the connection is not dropped.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type FilteringIterator[T any] struct {
	it        Iterator[T]
	predicate func(T) bool
	keepAlive func(filtered int64)
	every     int64
	filtered  int64
	count     int64
}

// NewFilteringIterator creates an iterator that skips values for which
// predicate returns false.
//
// The predicate should be pure; it is called exactly once per source value.
//
// Example:
//
//	// Only published items
//	published := kitz.NewFilteringIterator(items, func(i Item) bool {
//		return i.Published
//	})
//
//	// Ping the client every 1000 skipped rows
//	rows := kitz.NewFilteringIterator(all, matches).
//		WithKeepAlive(1000, func(int64) { w.Write([]byte("\n")) })
func NewFilteringIterator[T any](it Iterator[T], predicate func(T) bool) *FilteringIterator[T] {
	return &FilteringIterator[T]{
		it:        it,
		predicate: predicate,
	}
}

// WithKeepAlive calls fn with the running number of filtered values every
// time another `every` values have been filtered out.
func (f *FilteringIterator[T]) WithKeepAlive(every int64, fn func(filtered int64)) *FilteringIterator[T] {
	f.every = every
	f.keepAlive = fn
	return f
}

func (f *FilteringIterator[T]) Next() (T, error) {
	for {
		v, err := f.it.Next()
		if err != nil {
			return v, err
		}
		if f.predicate(v) {
			f.count++
			return v, nil
		}

		f.filtered++
		if f.keepAlive != nil && f.every > 0 && f.filtered%f.every == 0 {
			f.keepAlive(f.filtered)
		}
	}
}

// Filtered returns the number of values skipped so far.
func (f *FilteringIterator[T]) Filtered() int64 {
	return f.filtered
}

func (f *FilteringIterator[T]) Count() int64 {
	return f.count
}

// Size is unknown: it depends on the predicate.
func (*FilteringIterator[T]) Size() (int64, bool) {
	return 0, false
}

func (f *FilteringIterator[T]) TotalSize() (int64, bool) {
	return totalSizeOf(f.it)
}

// Close closes the wrapped iterator.
func (f *FilteringIterator[T]) Close() error {
	return Close(f.it)
}
