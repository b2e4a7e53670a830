package kitz

import (
	"errors"
	"slices"
	"testing"
)

func TestLazyIterator(t *testing.T) {
	calls := 0
	it := NewLazyIterator(func() (Iterator[int], error) {
		calls++
		return FromSlice([]int{7, 8}), nil
	})

	if it.Initialized() {
		t.Error("expected supplier not to be called before Next")
	}
	if _, ok := it.Size(); ok {
		t.Error("expected unknown size before initialization")
	}

	got, err := Collect[int](it)
	if err != nil || !slices.Equal(got, []int{7, 8}) {
		t.Errorf("expected [7 8], got %v (%v)", got, err)
	}
	if calls != 1 {
		t.Errorf("expected supplier to be called once, got %d", calls)
	}
	if size, ok := it.Size(); !ok || size != 2 {
		t.Errorf("expected size 2 after initialization, got %d (%v)", size, ok)
	}
	if it.Count() != 2 {
		t.Errorf("expected count 2, got %d", it.Count())
	}
}

func TestLazyIterator_SupplierError(t *testing.T) {
	boom := errors.New("connect failed")
	calls := 0
	it := NewLazyIterator(func() (Iterator[string], error) {
		calls++
		return nil, boom
	})

	for i := 0; i < 2; i++ {
		if _, err := it.Next(); !errors.Is(err, boom) {
			t.Errorf("expected supplier error, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected supplier to be called once, got %d", calls)
	}
	if !it.Initialized() {
		t.Error("expected a failed supplier to count as initialized")
	}
}

func TestLazyIterator_NilSource(t *testing.T) {
	it := NewLazyIterator(func() (Iterator[int], error) {
		return nil, nil
	})
	if _, err := it.Next(); !errors.Is(err, Done) {
		t.Errorf("expected Done for a nil source, got %v", err)
	}
}

func TestLazyIterator_Close(t *testing.T) {
	src := failAfter(Done, 1)
	it := NewLazyIterator(func() (Iterator[int], error) {
		return src, nil
	})

	if err := it.Close(); err != nil || src.closed != 0 {
		t.Errorf("expected close before initialization to do nothing, got %v (%d)", err, src.closed)
	}

	it.Next()
	if err := it.Close(); err != nil || src.closed != 1 {
		t.Errorf("expected the source to be closed, got %v (%d)", err, src.closed)
	}
}
