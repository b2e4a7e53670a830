package kitz

import (
	"fmt"
	"time"
)

// WindowedEventRate counts events in a sliding window and reports the
// rate at which they occur.
//
// Events land in the bucket that is current when they are recorded. The
// rate is the number of events in the live buckets divided by the time
// those buckets cover, so the estimate stays stable regardless of how
// fine-grained the buckets are; finer buckets only make the window edge
// sharper.
type WindowedEventRate struct {
	windowed[int64]
	lastEvent AtomicTime
}

// NewWindowedEventRate creates an event rate counter.
//
// When to use:
//   - Requests, messages or errors per second over the last minutes
//   - Feeding a rate into dashboards or health checks
//   - Detecting stalls (LastEvent) and bursts (Ranges)
//
// Example:
//
//	// Rate over the last five minutes in ten-second buckets
//	rate, err := kitz.NewWindowedEventRate(kitz.WindowConfig{
//		Window:         5 * time.Minute,
//		BucketDuration: 10 * time.Second,
//	}, kitz.RealClock)
//
//	rate.NewEvent()
//	perMinute := rate.Rate(time.Minute)
//
// Returns ErrInvalidConfig when the bucket layout cannot be satisfied.
func NewWindowedEventRate(config WindowConfig, clock Clock) (*WindowedEventRate, error) {
	r := &WindowedEventRate{}
	if err := r.init(config, clock, "event-rate"); err != nil {
		return nil, err
	}
	return r, nil
}

// WithName sets the name used in reports and metrics.
func (r *WindowedEventRate) WithName(name string) *WindowedEventRate {
	r.name = name
	return r
}

// NewEvent records a single event.
func (r *WindowedEventRate) NewEvent() {
	r.NewEvents(1)
}

// NewEvents records n events at once. Non-positive counts are ignored.
func (r *WindowedEventRate) NewEvents(n int64) {
	if n <= 0 {
		return
	}
	r.update(func(count *int64) {
		*count += n
	})
	r.lastEvent.Advance(r.clock.Now())
}

// TotalCount returns the number of events in the live buckets.
func (r *WindowedEventRate) TotalCount() int64 {
	return sumCounts(r.snapshot().buckets)
}

// Rate returns the number of events per unit of time over the window.
// It is zero whenever RelevantDuration is zero: before any time has
// passed and, with a single bucket, at the instant the bucket rotates,
// even though events recorded at that instant already count.
func (r *WindowedEventRate) Rate(unit time.Duration) float64 {
	snap := r.snapshot()
	if snap.relevant <= 0 {
		return 0
	}
	return float64(sumCounts(snap.buckets)) / float64(snap.relevant) * float64(unit)
}

// RatePerSecond returns Rate(time.Second).
func (r *WindowedEventRate) RatePerSecond() float64 {
	return r.Rate(time.Second)
}

// LastEvent returns the time of the most recent event, or the zero time
// when no event has been recorded.
func (r *WindowedEventRate) LastEvent() time.Time {
	return r.lastEvent.Load()
}

// Reset clears every bucket and the last event time, and restarts the
// window at the current time.
func (r *WindowedEventRate) Reset() {
	r.windowed.Reset()
	r.lastEvent.Store(time.Time{})
}

// String returns a human-readable summary of the current rate.
func (r *WindowedEventRate) String() string {
	snap := r.snapshot()
	total := sumCounts(snap.buckets)
	rate := 0.0
	if snap.relevant > 0 {
		rate = float64(total) / snap.relevant.Seconds()
	}
	return fmt.Sprintf("%s: %.3f/s (%d events in %s)", r.name, rate, total, snap.relevant)
}

func sumCounts(buckets []Bucket[int64]) int64 {
	var total int64
	for _, b := range buckets {
		total += b.Value
	}
	return total
}
