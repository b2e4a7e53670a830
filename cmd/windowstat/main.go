// Command windowstat reads records from stdin and reports their rate and,
// for numeric records, summary statistics over a sliding window.
//
//	tail -f access.log | windowstat --contains " 500 " --window 5m --listen :9090
//
// Reports are logged every --report interval; with --listen the current
// window is also served on /stats (JSON) and /metrics (Prometheus).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}
