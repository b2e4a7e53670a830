package kitz

// TailFunc decides on an extra value to return after the source is
// exhausted. last is the final source value and seen is false when the
// source had no values at all. Returning false adds nothing.
type TailFunc[T any] func(last T, seen bool) (T, bool)

// HeadFunc decides on an extra value to return before the source. first
// is the first source value, which is not consumed, and seen is false when
// the source has no values at all. Returning false adds nothing.
type HeadFunc[T any] func(first T, seen bool) (T, bool)

// TailAdder returns all values of its source followed by at most one
// computed value.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type TailAdder[T any] struct {
	it             Iterator[T]
	fn             TailFunc[T]
	last           T
	err            error
	count          int64
	seen           bool
	onlyIfEmpty    bool
	onlyIfNotEmpty bool
}

// NewTailAdder creates an iterator that consults fn once the source is
// exhausted.
//
// Example:
//
//	// Add a placeholder when a listing turns out empty
//	listing := kitz.NewTailAdder(items, func(_ Item, _ bool) (Item, bool) {
//		return Item{Title: "nothing found"}, true
//	}).OnlyIfEmpty()
//
//	// Close a sequence with a terminator derived from its last element
//	seq := kitz.NewTailAdder(chunks, func(last Chunk, seen bool) (Chunk, bool) {
//		return Chunk{Seq: last.Seq + 1, Final: true}, seen
//	})
func NewTailAdder[T any](it Iterator[T], fn TailFunc[T]) *TailAdder[T] {
	return &TailAdder[T]{it: it, fn: fn}
}

// OnlyIfEmpty only consults fn when the source had no values.
func (t *TailAdder[T]) OnlyIfEmpty() *TailAdder[T] {
	t.onlyIfEmpty = true
	return t
}

// OnlyIfNotEmpty only consults fn when the source had values.
func (t *TailAdder[T]) OnlyIfNotEmpty() *TailAdder[T] {
	t.onlyIfNotEmpty = true
	return t
}

func (t *TailAdder[T]) Next() (T, error) {
	var zero T
	if t.err != nil {
		return zero, t.err
	}

	v, err := t.it.Next()
	if err == nil {
		t.last = v
		t.seen = true
		t.count++
		return v, nil
	}

	t.err = err
	if !isDone(err) || !t.applies(t.seen) {
		return zero, err
	}

	tail, ok := t.fn(t.last, t.seen)
	t.last = zero
	if !ok {
		return zero, Done
	}
	t.count++
	return tail, nil
}

func (t *TailAdder[T]) applies(seen bool) bool {
	return !(t.onlyIfEmpty && seen) && !(t.onlyIfNotEmpty && !seen)
}

func (t *TailAdder[T]) Count() int64 {
	return t.count
}

// Size is only known when the source size is known and fn is certain not
// to be consulted.
func (t *TailAdder[T]) Size() (int64, bool) {
	size, ok := sizeOf(t.it)
	if !ok || t.applies(size > 0) {
		return 0, false
	}
	return size, true
}

func (t *TailAdder[T]) TotalSize() (int64, bool) {
	return totalSizeOf(t.it)
}

// Close closes the source.
func (t *TailAdder[T]) Close() error {
	return Close(t.it)
}

// HeadAdder returns at most one computed value followed by all values of
// its source.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type HeadAdder[T any] struct {
	it             *PeekingIterator[T]
	fn             HeadFunc[T]
	count          int64
	started        bool
	onlyIfEmpty    bool
	onlyIfNotEmpty bool
}

// NewHeadAdder creates an iterator that consults fn before returning the
// first source value.
//
// Example:
//
//	// Prefix a CSV export with a header row when there is data
//	rows := kitz.NewHeadAdder(records, func(first Record, _ bool) (Record, bool) {
//		return first.Header(), true
//	}).OnlyIfNotEmpty()
func NewHeadAdder[T any](it Iterator[T], fn HeadFunc[T]) *HeadAdder[T] {
	return &HeadAdder[T]{it: NewPeekingIterator(it), fn: fn}
}

// OnlyIfEmpty only consults fn when the source has no values.
func (h *HeadAdder[T]) OnlyIfEmpty() *HeadAdder[T] {
	h.onlyIfEmpty = true
	return h
}

// OnlyIfNotEmpty only consults fn when the source has values.
func (h *HeadAdder[T]) OnlyIfNotEmpty() *HeadAdder[T] {
	h.onlyIfNotEmpty = true
	return h
}

func (h *HeadAdder[T]) Next() (T, error) {
	if !h.started {
		h.started = true

		first, err := h.it.Peek()
		if err != nil && !isDone(err) {
			return first, err
		}
		seen := err == nil
		if h.applies(seen) {
			if head, ok := h.fn(first, seen); ok {
				h.count++
				return head, nil
			}
		}
	}

	v, err := h.it.Next()
	if err == nil {
		h.count++
	}
	return v, err
}

func (h *HeadAdder[T]) applies(seen bool) bool {
	return !(h.onlyIfEmpty && seen) && !(h.onlyIfNotEmpty && !seen)
}

func (h *HeadAdder[T]) Count() int64 {
	return h.count
}

// Size is only known when the source size is known and fn is certain not
// to be consulted.
func (h *HeadAdder[T]) Size() (int64, bool) {
	size, ok := h.it.Size()
	if !ok || h.applies(size > 0) {
		return 0, false
	}
	return size, true
}

func (h *HeadAdder[T]) TotalSize() (int64, bool) {
	return h.it.TotalSize()
}

// Close closes the source.
func (h *HeadAdder[T]) Close() error {
	return h.it.Close()
}
