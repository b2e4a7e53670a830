package kitz

import (
	"errors"
	"slices"
	"testing"
)

func TestCloseableIterator(t *testing.T) {
	src := failAfter(Done, 1, 2, 3)
	calls := 0
	it := NewCloseableIterator[int](src, func() error {
		calls++
		return nil
	})

	if v, err := it.Next(); err != nil || v != 1 {
		t.Fatalf("expected 1, got %d (%v)", v, err)
	}

	if err := it.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("unexpected second close error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected close function to run once, got %d", calls)
	}
	if src.closed != 1 {
		t.Errorf("expected the source to be closed once, got %d", src.closed)
	}
	if _, err := it.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
	if it.Count() != 1 {
		t.Errorf("expected count 1, got %d", it.Count())
	}
}

func TestCloseableIterator_CloseError(t *testing.T) {
	boom := errors.New("release failed")
	it := NewCloseableIterator[int](Empty[int](), func() error { return boom })

	err := it.Close()
	if !errors.Is(err, boom) {
		t.Errorf("expected close error, got %v", err)
	}
	if again := it.Close(); !errors.Is(again, boom) {
		t.Errorf("expected later close to repeat the first result, got %v", again)
	}
}

func TestCloseableIterator_NilFunc(t *testing.T) {
	it := NewCloseableIterator[string](FromSlice([]string{"a", "b"}), nil)

	if size, ok := it.Size(); !ok || size != 2 {
		t.Errorf("expected size 2 from the source, got %d (%v)", size, ok)
	}
	got, err := Collect[string](it)
	if err != nil || !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v (%v)", got, err)
	}
	if err := it.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
