package kitz

import (
	"errors"
	"slices"
	"testing"
)

func TestFilteringIterator(t *testing.T) {
	it := NewFilteringIterator[int](FromSlice([]int{1, 2, 3, 4, 5, 6}), func(n int) bool {
		return n%2 == 0
	})

	got, err := Collect[int](it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []int{2, 4, 6}) {
		t.Errorf("expected [2 4 6], got %v", got)
	}
	if it.Count() != 3 || it.Filtered() != 3 {
		t.Errorf("expected 3 passed and 3 filtered, got %d and %d", it.Count(), it.Filtered())
	}
	if _, ok := it.Size(); ok {
		t.Error("expected unknown size")
	}
	if total, ok := it.TotalSize(); !ok || total != 6 {
		t.Errorf("expected total size 6 from the source, got %d (%v)", total, ok)
	}
}

func TestFilteringIterator_PredicateCalledOnce(t *testing.T) {
	calls := map[int]int{}
	it := NewFilteringIterator[int](FromSlice([]int{1, 2, 3}), func(n int) bool {
		calls[n]++
		return n != 2
	})

	if _, err := Collect[int](it); err != nil {
		t.Fatal(err)
	}
	for n, c := range calls {
		if c != 1 {
			t.Errorf("predicate called %d times for %d", c, n)
		}
	}
}

func TestFilteringIterator_KeepAlive(t *testing.T) {
	values := make([]int, 25)
	for i := range values {
		values[i] = i
	}

	var pings []int64
	it := NewFilteringIterator[int](FromSlice(values), func(n int) bool {
		return n == 24
	}).WithKeepAlive(10, func(filtered int64) {
		pings = append(pings, filtered)
	})

	v, err := it.Next()
	if err != nil || v != 24 {
		t.Fatalf("expected 24, got %d (%v)", v, err)
	}
	if !slices.Equal(pings, []int64{10, 20}) {
		t.Errorf("expected keep-alive at 10 and 20, got %v", pings)
	}
}

func TestFilteringIterator_Error(t *testing.T) {
	boom := errors.New("boom")
	it := NewFilteringIterator[int](failAfter(boom, 1, 2), func(int) bool { return false })

	if _, err := it.Next(); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if it.Filtered() != 2 {
		t.Errorf("expected 2 filtered before the failure, got %d", it.Filtered())
	}
}

func TestFilteringIterator_AllFiltered(t *testing.T) {
	src := failAfter(Done, "a", "b")
	it := NewFilteringIterator[string](src, func(string) bool { return false })

	if _, err := it.Next(); !errors.Is(err, Done) {
		t.Errorf("expected Done, got %v", err)
	}
	if err := it.Close(); err != nil || src.closed != 1 {
		t.Errorf("expected close to reach the source, got %v (%d)", err, src.closed)
	}
}
