package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zoobzio/kitz"
	"github.com/zoobzio/kitz/config"
	"github.com/zoobzio/kitz/metrics"
)

const (
	envPrefix = "KITZ"
	namespace = "windowstat"
)

type options struct {
	configFiles []string
	logLevel    string
	logFormat   string
	window      time.Duration
	bucket      time.Duration
	buckets     int
	report      time.Duration
	listen      string
	contains    string
	offset      int64
	max         int64
	linger      bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "windowstat",
		Short:        "Sliding-window rate and summary statistics for line-oriented input",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}

			s, err := loadSettings(cmd, opts, logger)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s, logger, nil)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.configFiles, "config", "c", nil, "Config file (.properties, .yaml); repeatable, later files win")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format: text|json")
	f.DurationVar(&opts.window, "window", kitz.DefaultWindow, "Total window duration")
	f.DurationVar(&opts.bucket, "bucket", 0, "Duration of one bucket (derived when zero)")
	f.IntVar(&opts.buckets, "buckets", 0, "Number of buckets (default 100 unless --bucket is set)")
	f.DurationVar(&opts.report, "report", time.Minute, "Interval between logged reports")
	f.StringVar(&opts.listen, "listen", "", "Serve /stats and /metrics on this address")
	f.StringVar(&opts.contains, "contains", "", "Only count lines containing this text")
	f.Int64Var(&opts.offset, "offset", 0, "Skip this many matching lines first")
	f.Int64Var(&opts.max, "max", kitz.NoLimit, "Stop after this many matching lines (-1 for no limit)")
	f.BoolVar(&opts.linger, "linger", false, "Keep serving after the input ends until interrupted")

	return cmd
}

// loadSettings layers config files, KITZ_* variables and explicitly set
// flags, in that order.
func loadSettings(cmd *cobra.Command, opts options, logger *slog.Logger) (settings, error) {
	loaderOpts := []config.Option{
		config.WithEnvPrefix(envPrefix),
		config.WithLogger(logger),
	}
	for _, path := range opts.configFiles {
		loaderOpts = append(loaderOpts, config.WithFile(path))
	}

	var s settings
	if err := config.NewLoader(loaderOpts...).Decode(&s); err != nil {
		return s, err
	}

	flags := cmd.Flags()
	if flags.Changed("window") {
		s.Window.Window = opts.window
	}
	if flags.Changed("bucket") {
		s.Window.BucketDuration = opts.bucket
	}
	if flags.Changed("buckets") {
		s.Window.BucketCount = opts.buckets
	}
	if flags.Changed("report") {
		s.Report = opts.report
	}
	if flags.Changed("listen") {
		s.Listen = opts.listen
	}
	if flags.Changed("contains") {
		s.Contains = opts.contains
	}
	if flags.Changed("offset") {
		s.Offset = opts.offset
	}
	if flags.Changed("max") {
		s.Max = opts.max
	}
	if flags.Changed("linger") {
		s.Linger = opts.linger
	}

	return s, s.validate()
}

// run wires the statistics, the reporter and the optional HTTP server
// around the input pipeline. ready, if not nil, receives the bound
// listen address once the server accepts connections.
func run(ctx context.Context, in io.Reader, out io.Writer, s settings, logger *slog.Logger, ready chan<- string) error {
	records, err := kitz.NewWindowedEventRate(s.Window, kitz.RealClock)
	if err != nil {
		return err
	}
	values, err := kitz.NewWindowedSummary[float64](s.Window, kitz.RealClock)
	if err != nil {
		return err
	}
	records.WithName("records")
	values.WithName("values")

	registry := metrics.NewRegistry()
	collector := metrics.NewWindowCollector(namespace)
	if err := collector.AddRate(records); err != nil {
		return err
	}
	if err := collector.AddSummary(values); err != nil {
		return err
	}
	if err := registry.Register(namespace, "window", collector); err != nil {
		return err
	}
	pipelineMetrics, err := metrics.NewPipelineMetrics(registry, namespace, "stdin")
	if err != nil {
		return err
	}

	reporter := kitz.NewReporter(s.Report, kitz.RealClock).
		WithRate(records).
		WithSummary(values).
		WithLogger(logger).
		WithName(namespace)

	logger.InfoContext(ctx, "windowstat starting",
		"window", records.Window(),
		"bucket_duration", records.BucketDuration(),
		"buckets", records.BucketCount(),
		"listen", s.Listen)

	g, gctx := errgroup.WithContext(ctx)
	reportCtx, stopReports := context.WithCancel(gctx)
	defer stopReports()

	g.Go(func() error {
		reporter.Run(reportCtx)
		return nil
	})

	var server *http.Server
	if s.Listen != "" {
		ln, err := net.Listen("tcp", s.Listen)
		if err != nil {
			stopReports()
			_ = g.Wait()
			return fmt.Errorf("listen on %s: %w", s.Listen, err)
		}
		server = &http.Server{
			Handler:           newRouter(registry, reporter),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.InfoContext(ctx, "serving window statistics", "addr", ln.Addr().String())
		if ready != nil {
			ready <- ln.Addr().String()
		}

		g.Go(func() error {
			if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-reportCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	p := &pipeline{
		records: records,
		values:  values,
		metrics: pipelineMetrics,
		logger:  logger,
	}
	runErr := p.run(gctx, in, s)

	if runErr == nil && s.Linger && server != nil {
		logger.InfoContext(ctx, "input finished, serving until interrupted")
		<-gctx.Done()
	}

	stopReports()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}

	fmt.Fprintln(out, records.String())
	fmt.Fprintln(out, values.String())
	return runErr
}
