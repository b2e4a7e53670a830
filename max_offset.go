package kitz

// NoLimit makes a MaxOffsetIterator or MaxOffset processor return every
// value after the offset.
const NoLimit int64 = -1

// MaxOffsetIterator pages through another iterator: it skips the first
// offset values and then returns at most max values.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type MaxOffsetIterator[T any] struct {
	it        Iterator[T]
	countFn   func(T) bool
	callback  func()
	err       error
	max       int64
	offset    int64
	skipped   int64
	taken     int64
	count     int64
	autoClose bool
	finished  bool
}

// NewMaxOffsetIterator creates a paging view of it.
//
// The source is never read past the last value that can be returned, so a
// page of 10 out of a remote listing fetches no more than it needs.
//
// When to use:
//   - Offset/limit paging over a source that has no paging of its own
//   - Capping how many results a streaming endpoint returns
//   - Skipping a known number of header records
//
// Example:
//
//	// Third page of twenty
//	page := kitz.NewMaxOffsetIterator(results, 20, 40)
//
//	// Everything after the first 5, closing the source at the end
//	rest := kitz.NewMaxOffsetIterator(rows, kitz.NoLimit, 5).WithAutoClose()
//
// Parameters:
//   - max: Maximum number of values to return; negative (NoLimit) for no limit
//   - offset: Number of values to skip first; zero or negative skips nothing
func NewMaxOffsetIterator[T any](it Iterator[T], max, offset int64) *MaxOffsetIterator[T] {
	if offset < 0 {
		offset = 0
	}
	return &MaxOffsetIterator[T]{
		it:     it,
		max:    max,
		offset: offset,
	}
}

// WithCountFunc decides which values count toward offset and max. Values
// for which fn returns false are dropped while skipping the offset and
// passed through, without using up the max, afterwards.
func (m *MaxOffsetIterator[T]) WithCountFunc(fn func(T) bool) *MaxOffsetIterator[T] {
	m.countFn = fn
	return m
}

// WithCallback registers fn to run exactly once when iteration ends,
// because max was reached, the source was exhausted or it failed.
func (m *MaxOffsetIterator[T]) WithCallback(fn func()) *MaxOffsetIterator[T] {
	m.callback = fn
	return m
}

// WithAutoClose closes the source as soon as iteration ends.
func (m *MaxOffsetIterator[T]) WithAutoClose() *MaxOffsetIterator[T] {
	m.autoClose = true
	return m
}

func (m *MaxOffsetIterator[T]) counts(v T) bool {
	return m.countFn == nil || m.countFn(v)
}

func (m *MaxOffsetIterator[T]) Next() (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}

	if m.max >= 0 && m.taken >= m.max {
		return zero, m.finish(Done)
	}

	for m.skipped < m.offset {
		v, err := m.it.Next()
		if err != nil {
			return zero, m.finish(err)
		}
		if m.counts(v) {
			m.skipped++
		}
	}

	v, err := m.it.Next()
	if err != nil {
		return zero, m.finish(err)
	}
	if m.counts(v) {
		m.taken++
	}
	m.count++
	return v, nil
}

func (m *MaxOffsetIterator[T]) finish(err error) error {
	m.err = err
	if !m.finished {
		m.finished = true
		if m.autoClose {
			_ = Close(m.it)
		}
		if m.callback != nil {
			m.callback()
		}
	}
	return err
}

func (m *MaxOffsetIterator[T]) Count() int64 {
	return m.count
}

// Size is min(max, size-offset) when the source size is known and every
// value counts.
func (m *MaxOffsetIterator[T]) Size() (int64, bool) {
	if m.countFn != nil {
		return 0, false
	}
	size, ok := sizeOf(m.it)
	if !ok {
		return 0, false
	}
	remaining := size - m.offset
	if remaining < 0 {
		remaining = 0
	}
	if m.max >= 0 && remaining > m.max {
		remaining = m.max
	}
	return remaining, true
}

// TotalSize is the size of the source, before paging.
func (m *MaxOffsetIterator[T]) TotalSize() (int64, bool) {
	return totalSizeOf(m.it)
}

// Close closes the source.
func (m *MaxOffsetIterator[T]) Close() error {
	return Close(m.it)
}
