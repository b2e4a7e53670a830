package kitz

import (
	"context"
	"sync"
)

// Stream pushes the values of an iterator into a channel.
type Stream[T any] struct {
	it   Iterator[T]
	err  error
	name string
	mu   sync.Mutex
}

// NewStream creates a channel source over it.
//
// Example:
//
//	stream := kitz.NewStream[Item](items)
//	for item := range stream.Process(ctx) {
//		handle(item)
//	}
//	if err := stream.Err(); err != nil {
//		return err
//	}
func NewStream[T any](it Iterator[T]) *Stream[T] {
	return &Stream[T]{
		it:   it,
		name: "stream",
	}
}

// Process starts reading the iterator. The channel is closed when the
// iterator is exhausted, fails or ctx is done; the iterator is closed at
// that point.
func (s *Stream[T]) Process(ctx context.Context) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)
		defer Close(s.it) //nolint:errcheck // close errors carry no information for the consumer

		for {
			v, err := s.it.Next()
			if isDone(err) {
				return
			}
			if err != nil {
				s.setErr(err)
				return
			}

			select {
			case out <- v:
			case <-ctx.Done():
				s.setErr(ctx.Err())
				return
			}
		}
	}()

	return out
}

func (s *Stream[T]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Err returns the error that ended the stream, if any. It is only
// meaningful after the channel returned by Process has been closed.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream[T]) Name() string {
	return s.name
}

// ChannelIterator reads values from a channel.
type ChannelIterator[T any] struct {
	ctx   context.Context
	ch    <-chan T
	err   error
	count int64
}

// FromChannel returns an iterator over ch. It ends with Done when ch is
// closed and with the context error when ctx is done first.
func FromChannel[T any](ctx context.Context, ch <-chan T) *ChannelIterator[T] {
	return &ChannelIterator[T]{ctx: ctx, ch: ch}
}

func (c *ChannelIterator[T]) Next() (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}

	select {
	case <-c.ctx.Done():
		c.err = c.ctx.Err()
		return zero, c.err
	case v, ok := <-c.ch:
		if !ok {
			c.err = Done
			return zero, Done
		}
		c.count++
		return v, nil
	}
}

func (c *ChannelIterator[T]) Count() int64 {
	return c.count
}

func (*ChannelIterator[T]) Size() (int64, bool) {
	return 0, false
}

func (*ChannelIterator[T]) TotalSize() (int64, bool) {
	return 0, false
}

// MaxOffset is the channel counterpart of MaxOffsetIterator.
type MaxOffset[T any] struct {
	name   string
	max    int64
	offset int64
}

// NewMaxOffset creates a processor that discards the first offset items
// and then forwards at most max items. Once max items are forwarded the
// output is closed and the rest of the input is drained.
//
// Example:
//
//	// Items 40 to 59
//	page := kitz.NewMaxOffset[Event](20, 40)
//	out := page.Process(ctx, events)
//
// Parameters:
//   - max: Maximum number of items to forward; negative (NoLimit) for no limit
//   - offset: Number of items to discard first
func NewMaxOffset[T any](max, offset int64) *MaxOffset[T] {
	return &MaxOffset[T]{
		name:   "max-offset",
		max:    max,
		offset: offset,
	}
}

func (m *MaxOffset[T]) Process(ctx context.Context, in <-chan T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var skipped, taken int64
		for item := range in {
			if skipped < m.offset {
				skipped++
				continue
			}
			if m.max >= 0 && taken >= m.max {
				break
			}

			select {
			case out <- item:
				taken++
			case <-ctx.Done():
				return
			}
		}

		//nolint:revive // empty-block: necessary to drain remaining items from input channel
		for range in {
		}
	}()

	return out
}

func (m *MaxOffset[T]) Name() string {
	return m.name
}

// MergeSorted merges several sorted channels into one sorted channel.
type MergeSorted[T any] struct {
	cmp  func(a, b T) int
	name string
}

// NewMergeSorted creates a processor that merges sorted inputs using cmp.
// It waits for a value, or close, from every open input before emitting,
// so one slow input holds back the merged output.
//
// Example:
//
//	merge := kitz.NewMergeSorted(func(a, b LogLine) int {
//		return a.Time.Compare(b.Time)
//	})
//	lines := merge.Process(ctx, hostA, hostB, hostC)
func NewMergeSorted[T any](cmp func(a, b T) int) *MergeSorted[T] {
	return &MergeSorted[T]{
		cmp:  cmp,
		name: "merge-sorted",
	}
}

// Process merges the inputs. The output is closed when every input is
// closed or ctx is done.
func (m *MergeSorted[T]) Process(ctx context.Context, ins ...<-chan T) <-chan T {
	out := make(chan T)

	its := make([]Iterator[T], len(ins))
	for i, in := range ins {
		its[i] = FromChannel(ctx, in)
	}
	merged := NewMergedSortedIterator(m.cmp, its...)

	go func() {
		defer close(out)

		for {
			v, err := merged.Next()
			if err != nil {
				return
			}

			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (m *MergeSorted[T]) Name() string {
	return m.name
}
