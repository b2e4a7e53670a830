package kitz

// PeekingIterator allows looking at the next value before consuming it.
type PeekingIterator[T any] struct {
	it     Iterator[T]
	value  T
	err    error
	count  int64
	peeked bool
}

// NewPeekingIterator wraps it with one value of lookahead. Wrapping an
// iterator that already is a *PeekingIterator returns it unchanged.
func NewPeekingIterator[T any](it Iterator[T]) *PeekingIterator[T] {
	if p, ok := it.(*PeekingIterator[T]); ok {
		return p
	}
	return &PeekingIterator[T]{it: it}
}

// Peek returns the value the next call to Next will return, without
// consuming it. Errors are returned by Peek and by the following Next.
func (p *PeekingIterator[T]) Peek() (T, error) {
	if !p.peeked {
		p.value, p.err = p.it.Next()
		p.peeked = true
	}
	return p.value, p.err
}

// HasNext reports whether Next will return a value.
func (p *PeekingIterator[T]) HasNext() bool {
	_, err := p.Peek()
	return err == nil
}

func (p *PeekingIterator[T]) Next() (T, error) {
	v, err := p.Peek()
	if err != nil {
		// stays peeked so the error is sticky
		return v, err
	}
	var zero T
	p.value = zero
	p.peeked = false
	p.count++
	return v, nil
}

func (p *PeekingIterator[T]) Count() int64 {
	return p.count
}

func (p *PeekingIterator[T]) Size() (int64, bool) {
	return sizeOf(p.it)
}

func (p *PeekingIterator[T]) TotalSize() (int64, bool) {
	return totalSizeOf(p.it)
}

// Close closes the wrapped iterator.
func (p *PeekingIterator[T]) Close() error {
	return Close(p.it)
}
