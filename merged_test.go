package kitz

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestMergedSortedIterator(t *testing.T) {
	it := NewMergedSortedIterator[int](cmp.Compare[int],
		FromSlice([]int{1, 4, 7, 10}),
		FromSlice([]int{2, 5, 8}),
		Empty[int](),
		FromSlice([]int{3, 6, 9, 11, 12}),
	)

	if size, ok := it.Size(); !ok || size != 12 {
		t.Errorf("expected size 12, got %d (%v)", size, ok)
	}

	got, err := Collect[int](it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if it.Count() != 12 {
		t.Errorf("expected count 12, got %d", it.Count())
	}
}

type keyed struct {
	key    int
	source string
}

func TestMergedSortedIterator_TiesKeepInputOrder(t *testing.T) {
	byKey := func(a, b keyed) int { return cmp.Compare(a.key, b.key) }
	it := NewMergedSortedIterator[keyed](byKey,
		FromSlice([]keyed{{1, "a"}, {2, "a"}}),
		FromSlice([]keyed{{1, "b"}, {2, "b"}}),
	)

	got, err := Collect[keyed](it)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	for _, k := range got {
		order = append(order, k.source)
	}
	if strings.Join(order, "") != "abab" {
		t.Errorf("expected ties in input order, got %v", order)
	}
}

func TestMergedSortedIterator_NoInputs(t *testing.T) {
	it := NewMergedSortedIterator[string](cmp.Compare[string])
	if _, err := it.Next(); !errors.Is(err, Done) {
		t.Errorf("expected Done, got %v", err)
	}
	if size, ok := it.Size(); !ok || size != 0 {
		t.Errorf("expected size 0, got %d (%v)", size, ok)
	}
}

func TestMergedSortedIterator_UnknownSize(t *testing.T) {
	it := NewMergedSortedIterator[int](cmp.Compare[int],
		FromSlice([]int{1}),
		FromSeq(slices.Values([]int{2})),
	)
	if _, ok := it.Size(); ok {
		t.Error("expected unknown size when an input size is unknown")
	}
}

func TestMergedSortedIterator_Error(t *testing.T) {
	boom := errors.New("shard down")
	it := NewMergedSortedIterator[int](cmp.Compare[int],
		FromSlice([]int{1, 2, 3}),
		failAfter(boom, 2),
	)

	got, err := Collect[int](it)
	if !errors.Is(err, boom) {
		t.Fatalf("expected shard error, got %v", err)
	}
	if !slices.Equal(got, []int{1, 2, 2}) {
		t.Errorf("expected [1 2 2] before the failure, got %v", got)
	}
	if _, again := it.Next(); !errors.Is(again, boom) {
		t.Errorf("expected sticky error, got %v", again)
	}
}

func TestMergedSortedIterator_Close(t *testing.T) {
	a := failAfter(Done, 1)
	b := failAfter(Done, 2)
	it := NewMergedSortedIterator[int](cmp.Compare[int], a, b)

	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if a.closed != 1 || b.closed != 1 {
		t.Errorf("expected every input closed, got %d and %d", a.closed, b.closed)
	}
}
