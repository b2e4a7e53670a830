package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/zoobzio/kitz"
)

// settings is everything windowstat can read from config files and
// KITZ_* environment variables.
type settings struct {
	Window   kitz.WindowConfig `properties:"window"`
	Report   time.Duration     `properties:"report.interval,default=1m"`
	Listen   string            `properties:"http.listen,default="`
	Contains string            `properties:"input.contains,default="`
	Offset   int64             `properties:"input.offset,default=0"`
	Max      int64             `properties:"input.max,default=-1"`
	Linger   bool              `properties:"http.linger,default=false"`
}

func (s settings) validate() error {
	if s.Report <= 0 {
		return fmt.Errorf("report interval must be positive, got %s", s.Report)
	}
	if s.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", s.Offset)
	}
	if s.Linger && s.Listen == "" {
		return fmt.Errorf("linger needs a listen address")
	}
	return nil
}

// newLogger builds the process logger from --log-level and --log-format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, want text or json", format)
	}
}
