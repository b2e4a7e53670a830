package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"
)

// Years and months have no fixed length and are rejected.
var isoDuration = regexp.MustCompile(`^([-+])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:[.,]\d+)?)S)?)?$`)

// ParseDuration parses a Go duration ("1m30s") or an ISO-8601 duration
// ("PT1M30S", "P1DT2H"). A day is 24 hours and a week 7 days.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return parseISODuration(s)
}

func parseISODuration(s string) (time.Duration, error) {
	upper := strings.ToUpper(s)
	m := isoDuration.FindStringSubmatch(upper)
	if m == nil || strings.HasSuffix(upper, "T") || strings.HasSuffix(upper, "P") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute}
	var total float64
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += float64(n) * float64(unit)
	}
	if m[6] != "" {
		secs, err := strconv.ParseFloat(strings.Replace(m[6], ",", ".", 1), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += secs * float64(time.Second)
	}

	// float64(math.MaxInt64) rounds up to 2^63, which no Duration can hold.
	if total >= math.MaxInt64 {
		return 0, fmt.Errorf("duration %q out of range", s)
	}
	d := time.Duration(total)
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// normalizeDurations rewrites ISO-8601 values into Go durations so that
// properties can decode them into time.Duration fields.
func normalizeDurations(p *properties.Properties) error {
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		if !strings.HasPrefix(strings.ToUpper(strings.TrimLeft(strings.TrimSpace(value), "+-")), "P") {
			continue
		}
		d, err := parseISODuration(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		if _, _, err := p.Set(key, d.String()); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
