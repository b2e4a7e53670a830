package kitz

import (
	"errors"
)

// MergedSortedIterator merges iterators that are each sorted into one
// sorted iterator.
type MergedSortedIterator[T any] struct {
	cmp    func(a, b T) int
	inputs []*PeekingIterator[T]
	err    error
	count  int64
}

// NewMergedSortedIterator merges its using cmp, which returns a negative
// number when a sorts before b, zero when they are equal and a positive
// number otherwise (the contract of cmp.Compare and slices.SortFunc).
//
// The head of every input is compared on each call, so inputs are read one
// value ahead. Equal values are returned in the order of the inputs.
// Duplicates are kept. If an input is not sorted the output is not
// either, but no values are lost.
//
// Example:
//
//	// Combine per-shard results ordered by publication date
//	merged := kitz.NewMergedSortedIterator(func(a, b Item) int {
//		return a.Published.Compare(b.Published)
//	}, shardA, shardB, shardC)
func NewMergedSortedIterator[T any](cmp func(a, b T) int, its ...Iterator[T]) *MergedSortedIterator[T] {
	inputs := make([]*PeekingIterator[T], len(its))
	for i, it := range its {
		inputs[i] = NewPeekingIterator(it)
	}
	return &MergedSortedIterator[T]{
		cmp:    cmp,
		inputs: inputs,
	}
}

func (m *MergedSortedIterator[T]) Next() (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}

	best := -1
	var bestValue T
	for i, input := range m.inputs {
		v, err := input.Peek()
		if isDone(err) {
			continue
		}
		if err != nil {
			m.err = err
			return zero, err
		}
		if best < 0 || m.cmp(v, bestValue) < 0 {
			best = i
			bestValue = v
		}
	}

	if best < 0 {
		m.err = Done
		return zero, Done
	}

	v, err := m.inputs[best].Next()
	if err != nil {
		m.err = err
		return zero, err
	}
	m.count++
	return v, nil
}

func (m *MergedSortedIterator[T]) Count() int64 {
	return m.count
}

// Size is the sum of the input sizes when all of them are known.
func (m *MergedSortedIterator[T]) Size() (int64, bool) {
	var total int64
	for _, input := range m.inputs {
		size, ok := input.Size()
		if !ok {
			return 0, false
		}
		total += size
	}
	return total, true
}

// TotalSize is the sum of the input total sizes when all of them are known.
func (m *MergedSortedIterator[T]) TotalSize() (int64, bool) {
	var total int64
	for _, input := range m.inputs {
		size, ok := input.TotalSize()
		if !ok {
			return 0, false
		}
		total += size
	}
	return total, true
}

// Close closes every input and returns their errors joined.
func (m *MergedSortedIterator[T]) Close() error {
	var errs []error
	for _, input := range m.inputs {
		errs = append(errs, input.Close())
	}
	return errors.Join(errs...)
}
