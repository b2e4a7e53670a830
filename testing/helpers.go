// Package testing provides test utilities for kitz iterators and
// channel pipelines.
package testing

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/kitz"
)

// CollectWithTimeout collects values from a channel until it is closed or
// the timeout expires.
func CollectWithTimeout[T any](t *testing.T, ch <-chan T, timeout time.Duration) []T {
	t.Helper()

	var values []T
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return values
			}
			values = append(values, v)
		case <-timer.C:
			return values
		}
	}
}

// SendValues returns a closed, buffered channel holding values.
func SendValues[T any](t *testing.T, values []T) <-chan T {
	t.Helper()

	ch := make(chan T, len(values))
	for _, v := range values {
		ch <- v
	}
	close(ch)
	return ch
}

// Drain reads it until Done and fails the test on any other error.
func Drain[T any](t *testing.T, it kitz.Iterator[T]) []T {
	t.Helper()

	values, err := kitz.Collect(it)
	if err != nil {
		t.Fatalf("unexpected iterator error after %d values: %v", len(values), err)
	}
	return values
}

// DrainError reads it until it fails and returns the values read before
// the failure. A clean end is a test failure.
func DrainError[T any](t *testing.T, it kitz.Iterator[T]) ([]T, error) {
	t.Helper()

	values, err := kitz.Collect(it)
	if err == nil {
		t.Fatalf("expected an iterator error, got %d values and a clean end", len(values))
	}
	return values, err
}

// AssertValues verifies got equals want element by element.
func AssertValues[T comparable](t *testing.T, got, want []T) {
	t.Helper()

	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// ListSource is an in-memory paged source. It serves Fetch for
// kitz.NewBatchedReceiver and Page for kitz.NewPagedReceiver, and records
// every request it receives.
type ListSource[T any] struct {
	mu       sync.Mutex
	items    []T
	offsets  []int64
	failAt   map[int64]error
	pageSize int
}

// NewListSource creates a source over items. Cursor pages hold pageSize
// items; a pageSize of zero or less means ten.
func NewListSource[T any](pageSize int, items ...T) *ListSource[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ListSource[T]{
		items:    items,
		pageSize: pageSize,
		failAt:   make(map[int64]error),
	}
}

// FailAt makes the request starting at offset fail with err.
func (s *ListSource[T]) FailAt(offset int64, err error) *ListSource[T] {
	s.mu.Lock()
	s.failAt[offset] = err
	s.mu.Unlock()
	return s
}

// Fetch returns up to max items starting at offset.
func (s *ListSource[T]) Fetch(ctx context.Context, offset int64, max int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets = append(s.offsets, offset)
	if err := s.failAt[offset]; err != nil {
		return nil, err
	}
	if offset >= int64(len(s.items)) {
		return nil, nil
	}
	end := min(offset+int64(max), int64(len(s.items)))
	return slices.Clone(s.items[offset:end]), nil
}

// Page serves cursor pages. The token is the decimal offset of the page;
// the empty token is the first page.
func (s *ListSource[T]) Page(ctx context.Context, token string) ([]T, string, error) {
	offset := int64(0)
	if token != "" {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, "", errors.New("invalid page token " + strconv.Quote(token))
		}
		offset = n
	}

	items, err := s.Fetch(ctx, offset, s.pageSize)
	if err != nil {
		return nil, "", err
	}

	next := offset + int64(len(items))
	if next >= int64(len(s.items)) {
		return items, "", nil
	}
	return items, strconv.FormatInt(next, 10), nil
}

// Offsets returns the offsets of every request so far.
func (s *ListSource[T]) Offsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.offsets)
}
