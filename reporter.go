package kitz

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateSource is anything that reports an event rate over a window.
// *WindowedEventRate implements it.
type RateSource interface {
	Name() string
	TotalCount() int64
	RatePerSecond() float64
	IsWarmingUp() bool
}

// SummarySource is anything that reports summary statistics over a window.
// Every *WindowedSummary implements it.
type SummarySource interface {
	Name() string
	WindowFloat64() Summary[float64]
	IsWarmingUp() bool
}

// WindowReport is a point-in-time reading of one windowed statistic.
type WindowReport struct { //nolint:govet // logical field grouping preferred over memory optimization
	// Name identifies the statistic.
	Name string `json:"name"`

	// Time is when the reading was taken.
	Time time.Time `json:"time"`

	// Count is the number of events or values in the window.
	Count int64 `json:"count"`

	// Rate is events per second; zero for summaries.
	Rate float64 `json:"rate_per_second,omitempty"`

	// Summary is set for summary statistics only.
	Summary *Summary[float64] `json:"summary,omitempty"`

	// WarmingUp is true while less than one full window has elapsed.
	WarmingUp bool `json:"warming_up"`
}

// DefaultReportInterval is used when NewReporter gets a non-positive
// interval.
const DefaultReportInterval = time.Minute

// Reporter periodically reads a set of windowed statistics and reports
// them to a callback and a structured logger.
type Reporter struct {
	mu        sync.Mutex
	onReport  func(WindowReport)
	logger    *slog.Logger
	clock     Clock
	rates     []RateSource
	summaries []SummarySource
	name      string
	interval  time.Duration
}

// NewReporter creates a reporter that emits every interval.
//
// When to use:
//   - Logging throughput and latency of a worker once a minute
//   - Pushing window readings to a sink that is not Prometheus
//
// Example:
//
//	reporter := kitz.NewReporter(time.Minute, kitz.RealClock).
//		WithRate(requests).
//		WithSummary(latency).
//		WithLogger(logger)
//
//	go reporter.Run(ctx)
//
// Parameters:
//   - interval: How often to report; zero or negative means DefaultReportInterval
//   - clock: Clock interface for time operations
func NewReporter(interval time.Duration, clock Clock) *Reporter {
	if clock == nil {
		clock = RealClock
	}
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &Reporter{
		name:     "reporter",
		interval: interval,
		clock:    clock,
	}
}

// Interval returns the time between reports.
func (r *Reporter) Interval() time.Duration {
	return r.interval
}

// WithRate adds an event rate to every report.
func (r *Reporter) WithRate(src RateSource) *Reporter {
	r.mu.Lock()
	r.rates = append(r.rates, src)
	r.mu.Unlock()
	return r
}

// WithSummary adds summary statistics to every report.
func (r *Reporter) WithSummary(src SummarySource) *Reporter {
	r.mu.Lock()
	r.summaries = append(r.summaries, src)
	r.mu.Unlock()
	return r
}

// WithLogger sets the logger reports are written to. Without one the
// reporter uses slog.Default().
func (r *Reporter) WithLogger(logger *slog.Logger) *Reporter {
	r.logger = logger
	return r
}

// OnReport registers a callback invoked with every reading.
func (r *Reporter) OnReport(fn func(WindowReport)) *Reporter {
	r.onReport = fn
	return r
}

// WithName sets the name attached to log records.
func (r *Reporter) WithName(name string) *Reporter {
	r.name = name
	return r
}

// Run reports every interval until ctx is done, then reports once more
// and returns.
func (r *Reporter) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Report()
			return
		case <-ticker.C():
			r.Report()
		}
	}
}

// Snapshot takes a reading of every registered statistic without logging
// it or invoking the callback.
func (r *Reporter) Snapshot() []WindowReport {
	r.mu.Lock()
	rates := append([]RateSource(nil), r.rates...)
	summaries := append([]SummarySource(nil), r.summaries...)
	r.mu.Unlock()

	now := r.clock.Now()
	reports := make([]WindowReport, 0, len(rates)+len(summaries))

	for _, src := range rates {
		reports = append(reports, WindowReport{
			Name:      src.Name(),
			Time:      now,
			Count:     src.TotalCount(),
			Rate:      src.RatePerSecond(),
			WarmingUp: src.IsWarmingUp(),
		})
	}
	for _, src := range summaries {
		summary := src.WindowFloat64()
		reports = append(reports, WindowReport{
			Name:      src.Name(),
			Time:      now,
			Count:     summary.Count,
			Summary:   &summary,
			WarmingUp: src.IsWarmingUp(),
		})
	}
	return reports
}

// Report takes a Snapshot, hands each reading to the callback and logs
// it. It returns the readings.
func (r *Reporter) Report() []WindowReport {
	reports := r.Snapshot()

	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, report := range reports {
		attrs := []any{
			"reporter", r.name,
			"name", report.Name,
			"count", report.Count,
			"warming_up", report.WarmingUp,
		}
		if report.Summary != nil {
			attrs = append(attrs,
				"min", report.Summary.Min,
				"max", report.Summary.Max,
				"avg", report.Summary.Average(),
				"stddev", report.Summary.StandardDeviation())
		} else {
			attrs = append(attrs, "rate_per_second", report.Rate)
		}
		logger.Info("window report", attrs...)

		if r.onReport != nil {
			r.onReport(report)
		}
	}

	return reports
}

// Name returns the reporter name.
func (r *Reporter) Name() string {
	return r.name
}

// RateMonitor is a pass-through processor that records every item flowing
// through a stream as an event in a WindowedEventRate.
type RateMonitor[T any] struct {
	rate *WindowedEventRate
	name string
}

// NewRateMonitor creates a pass-through processor that counts items.
// Items are forwarded unchanged; the rate can be read at any time from
// the WindowedEventRate or a Reporter watching it.
//
// Example:
//
//	rate, _ := kitz.NewWindowedEventRate(kitz.WindowConfig{Window: time.Minute}, kitz.RealClock)
//	monitored := kitz.NewRateMonitor[Event](rate).Process(ctx, events)
func NewRateMonitor[T any](rate *WindowedEventRate) *RateMonitor[T] {
	return &RateMonitor[T]{
		rate: rate,
		name: "rate-monitor",
	}
}

func (m *RateMonitor[T]) Process(ctx context.Context, in <-chan T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return

			case item, ok := <-in:
				if !ok {
					return
				}

				m.rate.NewEvent()

				select {
				case out <- item:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (m *RateMonitor[T]) Name() string {
	return m.name
}
