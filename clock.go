package kitz

import "github.com/zoobzio/clockz"

// Clock is the time source for windows, reporters and monitors.
// Tests inject a clockz fake to rotate buckets deterministically.
type Clock = clockz.Clock

// Timer represents a single event timer.
type Timer = clockz.Timer

// Ticker delivers ticks at intervals.
type Ticker = clockz.Ticker

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock
