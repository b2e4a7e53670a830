package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zoobzio/kitz"
)

// WindowCollector reads windowed statistics at scrape time. Each source
// becomes a set of gauges labelled with its name, so a scrape always sees
// the window as of that moment instead of a value pushed earlier.
type WindowCollector struct {
	rates     []kitz.RateSource
	summaries []kitz.SummarySource

	events    *prometheus.Desc
	rate      *prometheus.Desc
	warmingUp *prometheus.Desc
	count     *prometheus.Desc
	sum       *prometheus.Desc
	min       *prometheus.Desc
	max       *prometheus.Desc
	avg       *prometheus.Desc
	stddev    *prometheus.Desc

	mu sync.RWMutex
}

// NewWindowCollector creates a collector whose metrics live under
// namespace_window_*.
//
// Example:
//
//	collector := metrics.NewWindowCollector("windowstat")
//	if err := collector.AddRate(lines); err != nil {
//		return err
//	}
//	err := registry.Register("windowstat", "window", collector)
func NewWindowCollector(namespace string) *WindowCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "window", name),
			help, append([]string{"window"}, labels...), nil)
	}

	return &WindowCollector{
		events:    desc("events", "Number of events in the window"),
		rate:      desc("events_per_second", "Event rate over the window"),
		warmingUp: desc("warming_up", "1 while less than one full window has elapsed", "kind"),
		count:     desc("values", "Number of values in the window"),
		sum:       desc("sum", "Sum of the values in the window"),
		min:       desc("min", "Smallest value in the window"),
		max:       desc("max", "Largest value in the window"),
		avg:       desc("avg", "Mean of the values in the window"),
		stddev:    desc("stddev", "Population standard deviation of the values in the window"),
	}
}

// AddRate exports an event rate. Sources are labelled by name, so a
// second rate with the same name is rejected with ErrDuplicate.
func (c *WindowCollector) AddRate(src kitz.RateSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.rates {
		if existing.Name() == src.Name() {
			return fmt.Errorf("WindowCollector.AddRate: add %s failed: %w", src.Name(), ErrDuplicate)
		}
	}
	c.rates = append(c.rates, src)
	return nil
}

// AddSummary exports summary statistics. A second summary with the same
// name is rejected with ErrDuplicate.
func (c *WindowCollector) AddSummary(src kitz.SummarySource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.summaries {
		if existing.Name() == src.Name() {
			return fmt.Errorf("WindowCollector.AddSummary: add %s failed: %w", src.Name(), ErrDuplicate)
		}
	}
	c.summaries = append(c.summaries, src)
	return nil
}

func (c *WindowCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.events, c.rate, c.warmingUp, c.count, c.sum, c.min, c.max, c.avg, c.stddev} {
		ch <- d
	}
}

func (c *WindowCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	gauge := func(desc *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, labels...)
	}

	for _, src := range c.rates {
		name := src.Name()
		gauge(c.events, float64(src.TotalCount()), name)
		gauge(c.rate, src.RatePerSecond(), name)
		gauge(c.warmingUp, boolToFloat(src.IsWarmingUp()), name, "rate")
	}

	for _, src := range c.summaries {
		name := src.Name()
		s := src.WindowFloat64()
		gauge(c.count, float64(s.Count), name)
		gauge(c.sum, s.Sum, name)
		gauge(c.min, s.Min, name)
		gauge(c.max, s.Max, name)
		gauge(c.avg, s.Average(), name)
		gauge(c.stddev, s.StandardDeviation(), name)
		gauge(c.warmingUp, boolToFloat(src.IsWarmingUp()), name, "summary")
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
