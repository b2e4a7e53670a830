package kitz

import (
	"bufio"
	"errors"
	"io"
	"iter"
)

// Iterator is a pull-style source of values.
//
// Next returns the next value, or Done once the source is exhausted. Any
// other error means the source failed. After Done or an error, every
// further call returns the same error again.
type Iterator[T any] interface {
	Next() (T, error)
}

// CountedIterator is an Iterator that knows how many values it returned
// and, possibly, how many it will return.
type CountedIterator[T any] interface {
	Iterator[T]

	// Count returns the number of values returned by Next so far.
	Count() int64

	// Size returns the total number of values this iterator will return,
	// if known.
	Size() (int64, bool)

	// TotalSize returns the size of the underlying collection, if known.
	// For a paged view this is the size of all pages together.
	TotalSize() (int64, bool)
}

// Peeker is an Iterator that can look at the next value without consuming it.
type Peeker[T any] interface {
	Iterator[T]
	Peek() (T, error)
}

// isDone reports whether err marks the regular end of an iterator.
func isDone(err error) bool {
	return errors.Is(err, Done)
}

// sizeOf returns the Size of it when it is a CountedIterator.
func sizeOf[T any](it Iterator[T]) (int64, bool) {
	if counted, ok := it.(CountedIterator[T]); ok {
		return counted.Size()
	}
	return 0, false
}

// totalSizeOf returns the TotalSize of it when it is a CountedIterator.
func totalSizeOf[T any](it Iterator[T]) (int64, bool) {
	if counted, ok := it.(CountedIterator[T]); ok {
		return counted.TotalSize()
	}
	return 0, false
}

// Close closes it when it implements io.Closer and does nothing otherwise.
func Close(it any) error {
	if c, ok := it.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SliceIterator iterates over an in-memory slice.
type SliceIterator[T any] struct {
	items []T
	pos   int
}

// FromSlice returns an iterator over items. Its size is known up front.
func FromSlice[T any](items []T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items}
}

// Empty returns an iterator without values.
func Empty[T any]() *SliceIterator[T] {
	return FromSlice[T](nil)
}

// Single returns an iterator with exactly one value.
func Single[T any](v T) *SliceIterator[T] {
	return FromSlice([]T{v})
}

func (s *SliceIterator[T]) Next() (T, error) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, Done
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *SliceIterator[T]) Count() int64 {
	return int64(s.pos)
}

func (s *SliceIterator[T]) Size() (int64, bool) {
	return int64(len(s.items)), true
}

func (s *SliceIterator[T]) TotalSize() (int64, bool) {
	return s.Size()
}

// SeqIterator pulls values from an iter.Seq.
type SeqIterator[T any] struct {
	next  func() (T, bool)
	stop  func()
	count int64
	done  bool
}

// FromSeq adapts a range-over-func sequence into an Iterator. Close must be
// called when the iterator is abandoned before exhaustion so the sequence
// can release its resources.
func FromSeq[T any](seq iter.Seq[T]) *SeqIterator[T] {
	next, stop := iter.Pull(seq)
	return &SeqIterator[T]{next: next, stop: stop}
}

func (s *SeqIterator[T]) Next() (T, error) {
	if !s.done {
		if v, ok := s.next(); ok {
			s.count++
			return v, nil
		}
		s.done = true
		s.stop()
	}
	var zero T
	return zero, Done
}

func (s *SeqIterator[T]) Count() int64 {
	return s.count
}

func (*SeqIterator[T]) Size() (int64, bool) {
	return 0, false
}

func (*SeqIterator[T]) TotalSize() (int64, bool) {
	return 0, false
}

// Close stops the underlying sequence. It is safe to call more than once.
func (s *SeqIterator[T]) Close() error {
	s.done = true
	s.stop()
	return nil
}

// All returns a range-over-func view of it. The sequence ends silently on
// Done; any other error is yielded once, with the zero value, as the last
// element.
//
//	for v, err := range kitz.All[int](it) {
//		if err != nil {
//			return err
//		}
//		use(v)
//	}
func All[T any](it Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := it.Next()
			if isDone(err) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains it into a slice. The values read before a failure are
// returned along with the error.
func Collect[T any](it Iterator[T]) ([]T, error) {
	var out []T
	if size, ok := sizeOf(it); ok && size > 0 {
		out = make([]T, 0, size)
	}
	for v, err := range All(it) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ScannerIterator yields the tokens of a bufio.Scanner, lines by default.
type ScannerIterator struct {
	scanner *bufio.Scanner
	count   int64
	err     error
}

// NewScannerIterator returns an iterator over the lines of r.
func NewScannerIterator(r io.Reader) *ScannerIterator {
	return &ScannerIterator{scanner: bufio.NewScanner(r)}
}

// FromScanner returns an iterator over an already configured scanner,
// for example one using bufio.ScanWords.
func FromScanner(scanner *bufio.Scanner) *ScannerIterator {
	return &ScannerIterator{scanner: scanner}
}

func (s *ScannerIterator) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.scanner.Scan() {
		s.count++
		return s.scanner.Text(), nil
	}
	s.err = s.scanner.Err()
	if s.err == nil {
		s.err = Done
	} else {
		s.err = NewIteratorError(s.err, "scanner", s.count)
	}
	return "", s.err
}

func (s *ScannerIterator) Count() int64 {
	return s.count
}

func (*ScannerIterator) Size() (int64, bool) {
	return 0, false
}

func (*ScannerIterator) TotalSize() (int64, bool) {
	return 0, false
}
