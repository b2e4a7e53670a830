package kitz

import (
	"context"
	"log/slog"
)

// DefaultBatchSize is used when a BatchConfig leaves BatchSize empty.
const DefaultBatchSize = 100

// BatchFunc fetches at most max items starting at offset.
type BatchFunc[T any] func(ctx context.Context, offset int64, max int) ([]T, error)

// PageFunc fetches the page identified by token and returns the token of
// the following page, or "" when this was the last one. The first call
// receives "".
type PageFunc[T any] func(ctx context.Context, token string) ([]T, string, error)

// BatchedReceiver presents a source that is read in batches as a single
// iterator. A new batch is only fetched once the previous one has been
// consumed.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type BatchedReceiver[T any] struct {
	ctx       context.Context
	fetch     BatchFunc[T]
	page      PageFunc[T]
	logger    *slog.Logger
	name      string
	token     string
	batch     []T
	err       error
	pos       int
	batchSize int
	offset    int64
	count     int64
	fetches   int
	last      bool
}

// NewBatchedReceiver creates an iterator over an offset/limit source.
//
// Fetching stops after an empty batch or after a batch with fewer items
// than requested, so a source of exactly 250 items with a batch size of
// 100 is fetched with offsets 0, 100 and 200.
//
// When to use:
//   - Walking every row of a paged REST or database listing
//   - Hiding page boundaries from the consuming code
//
// Example:
//
//	items := kitz.NewBatchedReceiver(ctx, kitz.BatchConfig{BatchSize: 50},
//		func(ctx context.Context, offset int64, max int) ([]Item, error) {
//			return client.List(ctx, offset, max)
//		})
//
//	for item, err := range kitz.All[Item](items) {
//		...
//	}
func NewBatchedReceiver[T any](ctx context.Context, config BatchConfig, fetch BatchFunc[T]) *BatchedReceiver[T] {
	size := config.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	offset := config.Offset
	if offset < 0 {
		offset = 0
	}
	return &BatchedReceiver[T]{
		ctx:       ctx,
		fetch:     fetch,
		name:      "batched-receiver",
		batchSize: size,
		offset:    offset,
	}
}

// NewPagedReceiver creates an iterator over a cursor-paged source. Pages
// are fetched until the returned token is empty; empty pages in between
// are skipped.
func NewPagedReceiver[T any](ctx context.Context, fetch PageFunc[T]) *BatchedReceiver[T] {
	return &BatchedReceiver[T]{
		ctx:  ctx,
		page: fetch,
		name: "paged-receiver",
	}
}

// WithLogger logs every fetch at debug level.
func (r *BatchedReceiver[T]) WithLogger(logger *slog.Logger) *BatchedReceiver[T] {
	r.logger = logger
	return r
}

// WithName sets the stage name used in errors and logs.
func (r *BatchedReceiver[T]) WithName(name string) *BatchedReceiver[T] {
	r.name = name
	return r
}

func (r *BatchedReceiver[T]) Next() (T, error) {
	var zero T
	for {
		if r.err != nil {
			return zero, r.err
		}

		if r.pos < len(r.batch) {
			v := r.batch[r.pos]
			r.batch[r.pos] = zero
			r.pos++
			r.count++
			return v, nil
		}

		if r.last {
			r.err = Done
			continue
		}

		if err := r.ctx.Err(); err != nil {
			r.err = NewIteratorError(err, r.name, r.offset)
			continue
		}

		r.fill()
	}
}

// fill fetches the next batch or page and records whether it was the last.
func (r *BatchedReceiver[T]) fill() {
	var (
		items []T
		err   error
	)

	r.fetches++
	if r.page != nil {
		var next string
		items, next, err = r.page(r.ctx, r.token)
		r.log("fetched page", "token", r.token, "next", next, "items", len(items), "error", err)
		if err == nil {
			r.token = next
			r.last = next == ""
		}
	} else {
		items, err = r.fetch(r.ctx, r.offset, r.batchSize)
		r.log("fetched batch", "offset", r.offset, "max", r.batchSize, "items", len(items), "error", err)
		if err == nil {
			r.last = len(items) < r.batchSize
		}
	}

	if err != nil {
		r.err = NewIteratorError(err, r.name, r.offset)
		return
	}

	r.batch = items
	r.pos = 0
	r.offset += int64(len(items))
}

func (r *BatchedReceiver[T]) log(msg string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.DebugContext(r.ctx, msg, append([]any{"receiver", r.name}, args...)...)
}

// Fetches returns how many batches or pages have been requested.
func (r *BatchedReceiver[T]) Fetches() int {
	return r.fetches
}

// Offset returns the source position of the next item to be fetched.
func (r *BatchedReceiver[T]) Offset() int64 {
	return r.offset
}

func (r *BatchedReceiver[T]) Count() int64 {
	return r.count
}

func (*BatchedReceiver[T]) Size() (int64, bool) {
	return 0, false
}

func (*BatchedReceiver[T]) TotalSize() (int64, bool) {
	return 0, false
}
