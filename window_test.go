package kitz

import (
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestWindowConfig_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		config         WindowConfig
		window         time.Duration
		bucketDuration time.Duration
		bucketCount    int
	}{
		{"defaults", WindowConfig{}, 15 * time.Minute, 9 * time.Second, 100},
		{"count from duration", WindowConfig{Window: time.Minute, BucketDuration: 10 * time.Second}, time.Minute, 10 * time.Second, 6},
		{"count rounded up", WindowConfig{Window: time.Minute, BucketDuration: 7 * time.Second}, 63 * time.Second, 7 * time.Second, 9},
		{"duration from count", WindowConfig{Window: time.Minute, BucketCount: 6}, time.Minute, 10 * time.Second, 6},
		{"window from both", WindowConfig{BucketDuration: time.Second, BucketCount: 10}, 10 * time.Second, time.Second, 10},
		{"all three consistent", WindowConfig{Window: 10 * time.Second, BucketDuration: time.Second, BucketCount: 10}, 10 * time.Second, time.Second, 10},
		{"default window with count", WindowConfig{BucketCount: 15}, 15 * time.Minute, time.Minute, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := NewWindowedEventRate(tt.config, clockz.NewFakeClockAt(epoch))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rate.Window() != tt.window {
				t.Errorf("expected window %s, got %s", tt.window, rate.Window())
			}
			if rate.BucketDuration() != tt.bucketDuration {
				t.Errorf("expected bucket duration %s, got %s", tt.bucketDuration, rate.BucketDuration())
			}
			if rate.BucketCount() != tt.bucketCount {
				t.Errorf("expected %d buckets, got %d", tt.bucketCount, rate.BucketCount())
			}
		})
	}
}

func TestWindowConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config WindowConfig
	}{
		{"negative window", WindowConfig{Window: -time.Second}},
		{"negative count", WindowConfig{BucketCount: -1}},
		{"inconsistent", WindowConfig{Window: time.Minute, BucketDuration: time.Second, BucketCount: 10}},
		{"bucket larger than window", WindowConfig{Window: time.Second, BucketDuration: time.Minute}},
		{"too many buckets", WindowConfig{Window: 50 * time.Nanosecond, BucketCount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindowedSummary[int](tt.config, clockz.NewFakeClockAt(epoch))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestWindowed_BucketRotation(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	rate, err := NewWindowedEventRate(WindowConfig{Window: 30 * time.Second, BucketCount: 3}, clock)
	if err != nil {
		t.Fatal(err)
	}

	rate.NewEvents(1)
	clock.Advance(10 * time.Second)
	rate.NewEvents(2)
	clock.Advance(10 * time.Second)
	rate.NewEvents(3)

	if got := rate.TotalCount(); got != 6 {
		t.Errorf("expected 6 events, got %d", got)
	}

	clock.Advance(10 * time.Second)

	ranges := rate.Ranges()
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	expected := []int64{2, 3, 0}
	for i, b := range ranges {
		if b.Value != expected[i] {
			t.Errorf("bucket %d: expected %d, got %d", i, expected[i], b.Value)
		}
		wantStart := epoch.Add(time.Duration(i+1) * 10 * time.Second)
		if !b.Start.Equal(wantStart) {
			t.Errorf("bucket %d: expected start %s, got %s", i, wantStart, b.Start)
		}
		if b.End.Sub(b.Start) != 10*time.Second {
			t.Errorf("bucket %d: expected 10s range, got %s", i, b.End.Sub(b.Start))
		}
	}
	if got := rate.TotalCount(); got != 5 {
		t.Errorf("expected 5 events after rotation, got %d", got)
	}
}

func TestWindowed_GapClearsEverything(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	rate, err := NewWindowedEventRate(WindowConfig{Window: time.Minute, BucketCount: 6}, clock)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		rate.NewEvents(10)
		clock.Advance(10 * time.Second)
	}
	clock.Advance(5 * time.Minute)

	if got := rate.TotalCount(); got != 0 {
		t.Errorf("expected empty window after a long gap, got %d", got)
	}
	for i, b := range rate.Ranges() {
		if b.Value != 0 {
			t.Errorf("bucket %d not cleared: %d", i, b.Value)
		}
	}

	rate.NewEvent()
	if got := rate.TotalCount(); got != 1 {
		t.Errorf("expected 1 event after the gap, got %d", got)
	}
}

func TestWindowed_WarmingUp(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	rate, err := NewWindowedEventRate(WindowConfig{Window: time.Minute, BucketCount: 6}, clock)
	if err != nil {
		t.Fatal(err)
	}

	if !rate.IsWarmingUp() {
		t.Error("expected a new window to be warming up")
	}
	if got := len(rate.Ranges()); got != 1 {
		t.Errorf("expected 1 live bucket at start, got %d", got)
	}

	clock.Advance(25 * time.Second)
	if got := len(rate.Ranges()); got != 3 {
		t.Errorf("expected 3 live buckets after 25s, got %d", got)
	}
	if got := rate.RelevantDuration(); got != 25*time.Second {
		t.Errorf("expected relevant duration 25s, got %s", got)
	}

	clock.Advance(35 * time.Second)
	if rate.IsWarmingUp() {
		t.Error("expected warm-up to end after one window")
	}
	if got := len(rate.Ranges()); got != 6 {
		t.Errorf("expected 6 live buckets, got %d", got)
	}
	if got := rate.RelevantDuration(); got != 50*time.Second {
		t.Errorf("expected relevant duration 50s at a bucket boundary, got %s", got)
	}
}

func TestWindowed_Reset(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	rate, err := NewWindowedEventRate(WindowConfig{Window: time.Minute, BucketCount: 6}, clock)
	if err != nil {
		t.Fatal(err)
	}

	rate.NewEvents(5)
	clock.Advance(90 * time.Second)
	rate.NewEvents(5)
	rate.Reset()

	if got := rate.TotalCount(); got != 0 {
		t.Errorf("expected 0 after reset, got %d", got)
	}
	if !rate.Start().Equal(epoch.Add(90 * time.Second)) {
		t.Errorf("expected start to move to reset time, got %s", rate.Start())
	}
	if !rate.IsWarmingUp() {
		t.Error("expected warm-up to restart after reset")
	}
}
