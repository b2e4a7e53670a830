// Package kitz provides small, composable building blocks shared between
// services: bucketed sliding-window statistics and a family of pull
// iterators that can be offset, limited, merged, batched and bridged into
// channel pipelines.
//
// The windowed statistics keep a fixed ring of time buckets. Every read
// and write first rotates the ring to the current time, so memory stays
// bounded no matter how long a counter lives.
//
// Basic usage:
//
//	rate, err := kitz.NewWindowedEventRate(kitz.WindowConfig{
//		Window:      time.Minute,
//		BucketCount: 60,
//	}, kitz.RealClock)
//	if err != nil {
//		return err
//	}
//
//	rate.NewEvent()
//	fmt.Printf("%.2f events/s\n", rate.RatePerSecond())
//
// The iterators follow a single contract, Next returns the next value or
// the Done sentinel, and wrap each other freely:
//
//	pages := kitz.NewBatchedReceiver(ctx, kitz.BatchConfig{BatchSize: 100}, fetchPage)
//	page := kitz.NewMaxOffsetIterator[Item](pages, 20, 40)
//	for item, err := range kitz.All[Item](page) {
//		if err != nil {
//			return err
//		}
//		render(item)
//	}
//
// The package provides:
//   - Event rate counting over a sliding window
//   - Summary statistics (count, sum, min, max, mean, deviation) over a window
//   - Periodic window reporting through log/slog
//   - Counted, peeking, filtering, lazy and closeable iterators
//   - Offset/max paging and sorted merging
//   - Batched and cursor-paged receiving
//   - Head and tail adding
//   - Bridges between iterators, iter.Seq and channels
package kitz

import (
	"context"
	"time"
)

// Processor is the channel-side contract for components that sit in a
// stream pipeline. It transforms an input channel of type In to an output
// channel of type Out.
// Processors should:
//   - Close the output channel when the input channel is closed
//   - Respect context cancellation
//   - Be safe for concurrent use
type Processor[In, Out any] interface {
	// Process transforms the input channel to an output channel.
	// It should close the output channel when processing is complete.
	Process(ctx context.Context, in <-chan In) <-chan Out

	// Name returns a descriptive name for the processor, useful for debugging.
	Name() string
}

// Default window layout used when a WindowConfig leaves fields empty.
const (
	DefaultWindow      = 15 * time.Minute
	DefaultBucketCount = 100
)

// WindowConfig configures the bucket layout of windowed statistics.
//
// Only two of the three fields are needed. When only BucketDuration is set
// the bucket count is derived from Window (rounded up, which may widen the
// window slightly). When only BucketCount is set the bucket duration is
// Window divided by BucketCount.
type WindowConfig struct {
	// Window is the total duration covered by all buckets together.
	Window time.Duration `properties:"size,default=15m"`

	// BucketDuration is the duration covered by a single bucket.
	BucketDuration time.Duration `properties:"bucket.duration,default=0s"`

	// BucketCount is the number of buckets in the ring.
	BucketCount int `properties:"bucket.count,default=0"`
}

// BatchConfig configures how a BatchedReceiver pages through a source.
type BatchConfig struct {
	// Offset is the position of the first item to fetch.
	Offset int64 `properties:"offset,default=0"`

	// BatchSize is the number of items requested per fetch.
	BatchSize int `properties:"size,default=100"`
}
