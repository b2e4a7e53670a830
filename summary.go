package kitz

import (
	"fmt"
	"math"
	"time"
)

// Number is the set of value types summary statistics can be kept for.
// time.Duration qualifies through its int64 underlying type.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Summary holds count, sum, extremes and the sum of squares of a set of
// values. The zero value is an empty summary with zero Min and Max.
type Summary[N Number] struct { //nolint:govet // logical field grouping preferred over memory optimization
	Count        int64   `json:"count"`
	Sum          N       `json:"sum"`
	Min          N       `json:"min"`
	Max          N       `json:"max"`
	SumOfSquares float64 `json:"sum_of_squares"`
}

// Accept adds a value to the summary.
func (s *Summary[N]) Accept(v N) {
	if s.Count == 0 {
		s.Min = v
		s.Max = v
	} else {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Count++
	s.Sum += v
	s.SumOfSquares += float64(v) * float64(v)
}

// Combine returns the summary of both value sets together.
func (s Summary[N]) Combine(other Summary[N]) Summary[N] {
	switch {
	case other.Count == 0:
		return s
	case s.Count == 0:
		return other
	}

	combined := Summary[N]{
		Count:        s.Count + other.Count,
		Sum:          s.Sum + other.Sum,
		Min:          s.Min,
		Max:          s.Max,
		SumOfSquares: s.SumOfSquares + other.SumOfSquares,
	}
	if other.Min < combined.Min {
		combined.Min = other.Min
	}
	if other.Max > combined.Max {
		combined.Max = other.Max
	}
	return combined
}

// Average returns the arithmetic mean, or zero for an empty summary.
func (s Summary[N]) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Variance returns the population variance, or zero for an empty summary.
func (s Summary[N]) Variance() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Average()
	v := s.SumOfSquares/float64(s.Count) - mean*mean
	if v < 0 {
		// rounding can push a constant series slightly below zero
		return 0
	}
	return v
}

// StandardDeviation returns the population standard deviation.
func (s Summary[N]) StandardDeviation() float64 {
	return math.Sqrt(s.Variance())
}

// Float64 converts the summary to float64 values.
func (s Summary[N]) Float64() Summary[float64] {
	return Summary[float64]{
		Count:        s.Count,
		Sum:          float64(s.Sum),
		Min:          float64(s.Min),
		Max:          float64(s.Max),
		SumOfSquares: s.SumOfSquares,
	}
}

// String returns a human-readable representation of the summary.
func (s Summary[N]) String() string {
	return fmt.Sprintf("count=%d sum=%v min=%v max=%v avg=%.3f stddev=%.3f",
		s.Count, s.Sum, s.Min, s.Max, s.Average(), s.StandardDeviation())
}

// WindowedSummary keeps summary statistics over a sliding window.
// Each bucket holds a Summary of the values accepted during its time
// slice; WindowValue combines the live buckets.
type WindowedSummary[N Number] struct {
	windowed[Summary[N]]
}

// Named instantiations for the common value types.
type (
	WindowedIntSummary      = WindowedSummary[int]
	WindowedLongSummary     = WindowedSummary[int64]
	WindowedDoubleSummary   = WindowedSummary[float64]
	WindowedDurationSummary = WindowedSummary[time.Duration]
)

// NewWindowedSummary creates summary statistics over a sliding window.
//
// When to use:
//   - Response time min/max/mean over the last minutes
//   - Payload sizes or queue depths observed over time
//   - Anything where a rate alone hides the distribution
//
// Example:
//
//	latency, err := kitz.NewWindowedSummary[time.Duration](kitz.WindowConfig{
//		Window:      time.Minute,
//		BucketCount: 12,
//	}, kitz.RealClock)
//
//	latency.Accept(time.Since(begin))
//	stats := latency.WindowValue()
//	fmt.Printf("avg %s, max %s\n", time.Duration(stats.Average()), stats.Max)
//
// Returns ErrInvalidConfig when the bucket layout cannot be satisfied.
func NewWindowedSummary[N Number](config WindowConfig, clock Clock) (*WindowedSummary[N], error) {
	s := &WindowedSummary[N]{}
	if err := s.init(config, clock, "summary"); err != nil {
		return nil, err
	}
	return s, nil
}

// WithName sets the name used in reports and metrics.
func (s *WindowedSummary[N]) WithName(name string) *WindowedSummary[N] {
	s.name = name
	return s
}

// Accept records one or more values in the current bucket.
func (s *WindowedSummary[N]) Accept(values ...N) {
	if len(values) == 0 {
		return
	}
	s.update(func(bucket *Summary[N]) {
		for _, v := range values {
			bucket.Accept(v)
		}
	})
}

// WindowValue returns the combined summary of the live buckets.
func (s *WindowedSummary[N]) WindowValue() Summary[N] {
	var total Summary[N]
	for _, b := range s.snapshot().buckets {
		total = total.Combine(b.Value)
	}
	return total
}

// WindowFloat64 returns WindowValue converted to float64 values.
func (s *WindowedSummary[N]) WindowFloat64() Summary[float64] {
	return s.WindowValue().Float64()
}

// String returns a human-readable summary of the window.
func (s *WindowedSummary[N]) String() string {
	return fmt.Sprintf("%s: %s", s.name, s.WindowValue())
}
