package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zoobzio/kitz"
	"github.com/zoobzio/kitz/metrics"
)

// pipeline feeds input records into the windowed statistics.
type pipeline struct {
	records *kitz.WindowedEventRate
	values  *kitz.WindowedDoubleSummary
	metrics *metrics.PipelineMetrics
	logger  *slog.Logger
}

// keepAliveEvery is how many filtered records pass between progress logs.
const keepAliveEvery = 10000

// run reads r line by line until it is exhausted or ctx is done. Every
// line that passes the filter and the offset/max window counts as an
// event; lines that parse as numbers are also added to the summary.
func (p *pipeline) run(ctx context.Context, r io.Reader, s settings) error {
	lines := kitz.NewScannerIterator(r)

	filtered := kitz.NewFilteringIterator[string](lines, func(line string) bool {
		p.metrics.RecordRead()
		if s.Contains == "" || strings.Contains(line, s.Contains) {
			return true
		}
		p.metrics.RecordFiltered(1)
		return false
	}).WithKeepAlive(keepAliveEvery, func(n int64) {
		p.logger.DebugContext(ctx, "filtering input", "filtered", n, "read", lines.Count())
	})

	page := kitz.NewMaxOffsetIterator[string](filtered, s.Max, s.Offset).
		WithCallback(func() {
			p.logger.InfoContext(ctx, "input finished",
				"read", lines.Count(),
				"filtered", filtered.Filtered(),
				"offset", s.Offset)
		})

	stream := kitz.NewStream[string](page)
	monitored := kitz.NewRateMonitor[string](p.records).Process(ctx, stream.Process(ctx))

	for line := range monitored {
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		p.metrics.RecordValue(err == nil)
		if err == nil {
			p.values.Accept(v)
		}
	}

	err := stream.Err()
	if ctx.Err() != nil && err == ctx.Err() {
		return nil
	}
	return err
}
