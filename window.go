package kitz

import (
	"sync"
	"time"
)

// Bucket is one time slice of a window together with the value collected
// during that slice.
type Bucket[V any] struct {
	Start time.Time
	End   time.Time
	Value V
}

// resolve fills in defaults and derives the missing bucket dimension.
func (c WindowConfig) resolve() (WindowConfig, error) {
	if c.Window < 0 || c.BucketDuration < 0 || c.BucketCount < 0 {
		return c, invalidConfig("window %s, bucket duration %s and bucket count %d must not be negative",
			c.Window, c.BucketDuration, c.BucketCount)
	}

	switch {
	case c.BucketDuration > 0 && c.BucketCount > 0:
		product := c.BucketDuration * time.Duration(c.BucketCount)
		if c.Window != 0 && c.Window != product {
			return c, invalidConfig("window %s does not equal %d buckets of %s",
				c.Window, c.BucketCount, c.BucketDuration)
		}
		c.Window = product

	case c.BucketDuration > 0:
		if c.Window == 0 {
			c.Window = DefaultWindow
		}
		if c.BucketDuration > c.Window {
			return c, invalidConfig("bucket duration %s exceeds window %s", c.BucketDuration, c.Window)
		}
		count := c.Window / c.BucketDuration
		if c.Window%c.BucketDuration != 0 {
			count++
		}
		c.BucketCount = int(count)
		c.Window = c.BucketDuration * count

	default:
		if c.Window == 0 {
			c.Window = DefaultWindow
		}
		if c.BucketCount == 0 {
			c.BucketCount = DefaultBucketCount
		}
		c.BucketDuration = c.Window / time.Duration(c.BucketCount)
		if c.BucketDuration <= 0 {
			return c, invalidConfig("window %s is too small for %d buckets", c.Window, c.BucketCount)
		}
		c.Window = c.BucketDuration * time.Duration(c.BucketCount)
	}

	return c, nil
}

// windowed is the ring of buckets shared by every windowed statistic.
// Buckets are aligned to the creation time. The bucket at index current
// covers [currentStart, currentStart+bucketDuration); the ones before it
// in ring order cover the preceding slices.
type windowed[V any] struct {
	mu             sync.Mutex
	clock          Clock
	start          time.Time
	currentStart   time.Time
	buckets        []V
	current        int
	bucketDuration time.Duration
	name           string
}

// windowSnapshot is a consistent view of a window at one instant.
type windowSnapshot[V any] struct {
	now       time.Time
	buckets   []Bucket[V]
	relevant  time.Duration
	warmingUp bool
}

// init prepares the ring in place; the zero windowed is not usable.
func (w *windowed[V]) init(config WindowConfig, clock Clock, name string) error {
	resolved, err := config.resolve()
	if err != nil {
		return err
	}
	if clock == nil {
		clock = RealClock
	}

	now := clock.Now()
	w.clock = clock
	w.start = now
	w.currentStart = now
	w.buckets = make([]V, resolved.BucketCount)
	w.bucketDuration = resolved.BucketDuration
	w.name = name
	return nil
}

// shiftLocked rotates the ring so that the current bucket contains now.
// Buckets that are rotated into use are reset to the zero value.
func (w *windowed[V]) shiftLocked(now time.Time) {
	elapsed := now.Sub(w.currentStart)
	if elapsed < w.bucketDuration {
		return
	}

	steps := int64(elapsed / w.bucketDuration)
	resets := steps
	if resets > int64(len(w.buckets)) {
		resets = int64(len(w.buckets))
	}

	var zero V
	for i := int64(0); i < resets; i++ {
		w.current = (w.current + 1) % len(w.buckets)
		w.buckets[w.current] = zero
	}
	w.currentStart = w.currentStart.Add(time.Duration(steps) * w.bucketDuration)
}

// update applies fn to the current bucket.
func (w *windowed[V]) update(fn func(*V)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.shiftLocked(w.clock.Now())
	fn(&w.buckets[w.current])
}

// snapshot returns the live buckets, oldest first, and the duration they
// cover.
func (w *windowed[V]) snapshot() windowSnapshot[V] {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	w.shiftLocked(now)

	n := len(w.buckets)
	window := w.bucketDuration * time.Duration(n)
	snap := windowSnapshot[V]{
		now:       now,
		buckets:   make([]Bucket[V], 0, n),
		warmingUp: now.Sub(w.start) < window,
	}

	for k := 0; k < n; k++ {
		idx := (w.current + 1 + k) % n
		start := w.currentStart.Add(-time.Duration(n-1-k) * w.bucketDuration)
		if start.Before(w.start) {
			continue
		}
		snap.buckets = append(snap.buckets, Bucket[V]{
			Start: start,
			End:   start.Add(w.bucketDuration),
			Value: w.buckets[idx],
		})
	}

	if snap.warmingUp {
		snap.relevant = now.Sub(w.start)
	} else {
		snap.relevant = time.Duration(n-1)*w.bucketDuration + now.Sub(w.currentStart)
	}
	return snap
}

// Ranges returns the live buckets of the window, oldest first. While the
// window is warming up, buckets that would start before its creation are
// left out.
func (w *windowed[V]) Ranges() []Bucket[V] {
	return w.snapshot().buckets
}

// IsWarmingUp reports whether less than one full window has elapsed since
// the window was created or reset.
func (w *windowed[V]) IsWarmingUp() bool {
	return w.snapshot().warmingUp
}

// RelevantDuration returns the span of time the live buckets cover.
func (w *windowed[V]) RelevantDuration() time.Duration {
	return w.snapshot().relevant
}

// Start returns the creation (or last reset) time of the window.
func (w *windowed[V]) Start() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.start
}

// Window returns the total duration covered by all buckets.
func (w *windowed[V]) Window() time.Duration {
	return w.bucketDuration * time.Duration(len(w.buckets))
}

// BucketDuration returns the duration of a single bucket.
func (w *windowed[V]) BucketDuration() time.Duration {
	return w.bucketDuration
}

// BucketCount returns the number of buckets in the ring.
func (w *windowed[V]) BucketCount() int {
	return len(w.buckets)
}

// Reset clears every bucket and restarts the window at the current time.
func (w *windowed[V]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	var zero V
	for i := range w.buckets {
		w.buckets[i] = zero
	}
	now := w.clock.Now()
	w.start = now
	w.currentStart = now
	w.current = 0
}

// Name returns the name used in reports and metrics.
func (w *windowed[V]) Name() string {
	return w.name
}
