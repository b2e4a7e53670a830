package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics counts what happens to input records on their way
// through an iterator pipeline.
type PipelineMetrics struct {
	read     prometheus.Counter
	filtered prometheus.Counter
	accepted prometheus.Counter
	rejected prometheus.Counter
}

// NewPipelineMetrics creates the counters and registers them under
// component.
func NewPipelineMetrics(registry *Registry, namespace, component string) (*PipelineMetrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pipeline",
			Name:        name,
			ConstLabels: prometheus.Labels{"component": component},
			Help:        help,
		})
	}

	m := &PipelineMetrics{
		read:     counter("records_read_total", "Total number of records read from the input"),
		filtered: counter("records_filtered_total", "Total number of records dropped by the filter"),
		accepted: counter("values_accepted_total", "Total number of numeric values added to the summary"),
		rejected: counter("values_rejected_total", "Total number of records that were not numeric"),
	}

	for name, c := range map[string]prometheus.Collector{
		"records_read":     m.read,
		"records_filtered": m.filtered,
		"values_accepted":  m.accepted,
		"values_rejected":  m.rejected,
	} {
		if err := registry.Register(component, name, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordRead counts a record read from the input.
func (m *PipelineMetrics) RecordRead() {
	m.read.Inc()
}

// RecordFiltered counts n records dropped by the filter.
func (m *PipelineMetrics) RecordFiltered(n int64) {
	if n > 0 {
		m.filtered.Add(float64(n))
	}
}

// RecordValue counts a record by whether it carried a numeric value.
func (m *PipelineMetrics) RecordValue(ok bool) {
	if ok {
		m.accepted.Inc()
		return
	}
	m.rejected.Inc()
}
