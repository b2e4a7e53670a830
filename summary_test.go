package kitz

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestSummary_Accept(t *testing.T) {
	var s Summary[int]
	for _, v := range []int{4, 2, 9, 5} {
		s.Accept(v)
	}

	if s.Count != 4 {
		t.Errorf("expected count 4, got %d", s.Count)
	}
	if s.Sum != 20 {
		t.Errorf("expected sum 20, got %d", s.Sum)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("expected min 2 and max 9, got %d and %d", s.Min, s.Max)
	}
	if s.Average() != 5 {
		t.Errorf("expected average 5, got %f", s.Average())
	}
	// (16+4+81+25)/4 - 25 = 6.5
	if math.Abs(s.Variance()-6.5) > 1e-9 {
		t.Errorf("expected variance 6.5, got %f", s.Variance())
	}
}

func TestSummary_Empty(t *testing.T) {
	var s Summary[float64]
	if s.Average() != 0 || s.Variance() != 0 || s.StandardDeviation() != 0 {
		t.Errorf("expected zero statistics for an empty summary, got %s", s)
	}
}

func TestSummary_NegativeFirstValue(t *testing.T) {
	var s Summary[int64]
	s.Accept(-3)
	s.Accept(-7)

	if s.Min != -7 || s.Max != -3 {
		t.Errorf("expected min -7 and max -3, got %d and %d", s.Min, s.Max)
	}
}

func TestSummary_Combine(t *testing.T) {
	var a, b Summary[int]
	a.Accept(1)
	a.Accept(10)
	b.Accept(-5)
	b.Accept(3)

	c := a.Combine(b)
	if c.Count != 4 || c.Sum != 9 || c.Min != -5 || c.Max != 10 {
		t.Errorf("unexpected combined summary %+v", c)
	}

	var empty Summary[int]
	if got := empty.Combine(a); got != a {
		t.Errorf("expected combining with empty to return the other side, got %+v", got)
	}
	if got := a.Combine(empty); got != a {
		t.Errorf("expected combining with empty to return the receiver, got %+v", got)
	}
}

func TestSummary_ConstantSeriesVariance(t *testing.T) {
	var s Summary[float64]
	for i := 0; i < 1000; i++ {
		s.Accept(0.1)
	}
	if s.Variance() < 0 {
		t.Errorf("expected non-negative variance, got %g", s.Variance())
	}
	if s.StandardDeviation() > 1e-6 {
		t.Errorf("expected near-zero deviation, got %g", s.StandardDeviation())
	}
}

func TestWindowedSummary_Window(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	s, err := NewWindowedSummary[int](WindowConfig{Window: 30 * time.Second, BucketCount: 3}, clock)
	if err != nil {
		t.Fatal(err)
	}

	s.Accept(100)
	clock.Advance(10 * time.Second)
	s.Accept(1, 2, 3)
	clock.Advance(10 * time.Second)
	s.Accept(50)

	got := s.WindowValue()
	if got.Count != 5 || got.Min != 1 || got.Max != 100 {
		t.Errorf("unexpected window value %+v", got)
	}

	clock.Advance(10 * time.Second)
	got = s.WindowValue()
	if got.Count != 4 || got.Max != 50 || got.Sum != 56 {
		t.Errorf("expected the first bucket to drop out, got %+v", got)
	}
}

func TestWindowedSummary_Durations(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	latency, err := NewWindowedSummary[time.Duration](WindowConfig{Window: time.Minute, BucketCount: 6}, clock)
	if err != nil {
		t.Fatal(err)
	}

	latency.Accept(10*time.Millisecond, 30*time.Millisecond)

	got := latency.WindowValue()
	if got.Max != 30*time.Millisecond {
		t.Errorf("expected max 30ms, got %s", got.Max)
	}
	if time.Duration(got.Average()) != 20*time.Millisecond {
		t.Errorf("expected average 20ms, got %s", time.Duration(got.Average()))
	}

	f := latency.WindowFloat64()
	if f.Sum != float64(40*time.Millisecond) {
		t.Errorf("expected float sum %f, got %f", float64(40*time.Millisecond), f.Sum)
	}
}

func TestWindowedSummary_AcceptNothing(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	s, err := NewWindowedSummary[float64](WindowConfig{}, clock)
	if err != nil {
		t.Fatal(err)
	}

	s.Accept()
	if got := s.WindowValue().Count; got != 0 {
		t.Errorf("expected empty window, got count %d", got)
	}
}

func TestWindowedSummary_String(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	s, err := NewWindowedSummary[int](WindowConfig{Window: time.Minute}, clock)
	if err != nil {
		t.Fatal(err)
	}
	s.WithName("payload").Accept(2, 4)

	got := s.String()
	if !strings.HasPrefix(got, "payload: count=2 sum=6 min=2 max=4 avg=3.000") {
		t.Errorf("unexpected string %q", got)
	}
}

// Example demonstrates latency statistics over a sliding window.
func ExampleWindowedSummary() {
	clock := clockz.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	latency, _ := NewWindowedSummary[time.Duration](WindowConfig{
		Window:      time.Minute,
		BucketCount: 6,
	}, clock)

	latency.Accept(120*time.Millisecond, 80*time.Millisecond)
	clock.Advance(30 * time.Second)
	latency.Accept(40 * time.Millisecond)

	stats := latency.WindowValue()
	fmt.Printf("count: %d\n", stats.Count)
	fmt.Printf("min: %s max: %s\n", stats.Min, stats.Max)
	fmt.Printf("avg: %s\n", time.Duration(stats.Average()))

	// Output:
	// count: 3
	// min: 40ms max: 120ms
	// avg: 80ms
}
