// Package bench collects latency statistics for repeated script runs.
package bench

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"
)

// Collector aggregates request timing and outcome data across repeated runs
type Collector struct {
	mu sync.Mutex

	// Histogram in microseconds, 1us to 60s range, 3 significant digits
	histogram *hdrhistogram.Histogram

	total  int
	passed int
	failed int

	startTime time.Time
	endTime   time.Time
}

// Summary is a snapshot of collected statistics
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Elapsed time.Duration
	Min     time.Duration
	Max     time.Duration
	Mean    time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	PerSec  float64
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Start marks the beginning of the repeated runs
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
}

// Stop marks the end of the repeated runs
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
}

// Observe records one sample's duration and outcome
func (c *Collector) Observe(duration time.Duration, passed bool) {
	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.histogram.RecordValue(latencyUs)
	c.total++
	if passed {
		c.passed++
	} else {
		c.failed++
	}
}

// Summary computes the current statistics
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	end := c.endTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(c.startTime)

	s := Summary{
		Total:   c.total,
		Passed:  c.passed,
		Failed:  c.failed,
		Elapsed: elapsed,
		Min:     time.Duration(c.histogram.Min()) * time.Microsecond,
		Max:     time.Duration(c.histogram.Max()) * time.Microsecond,
		Mean:    time.Duration(c.histogram.Mean()) * time.Microsecond,
		P50:     time.Duration(c.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:     time.Duration(c.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:     time.Duration(c.histogram.ValueAtQuantile(99)) * time.Microsecond,
	}
	if elapsed > 0 {
		s.PerSec = float64(c.total) / elapsed.Seconds()
	}
	return s
}

// Pacer throttles repeated runs to at most runsPerSecond. A zero or negative
// rate means unlimited.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer for the given rate
func NewPacer(runsPerSecond float64) *Pacer {
	if runsPerSecond <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(runsPerSecond), 1)}
}

// Wait blocks until the next run may start
func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// Print writes a human-readable summary
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nrequests: %d (%d ok, %d failed)\n", s.Total, s.Passed, s.Failed)
	fmt.Fprintf(w, "elapsed:  %s (%.1f req/s)\n", s.Elapsed.Round(time.Millisecond), s.PerSec)
	fmt.Fprintf(w, "latency:  min=%s mean=%s max=%s\n",
		s.Min.Round(time.Microsecond), s.Mean.Round(time.Microsecond), s.Max.Round(time.Microsecond))
	fmt.Fprintf(w, "          p50=%s p95=%s p99=%s\n",
		s.P50.Round(time.Microsecond), s.P95.Round(time.Microsecond), s.P99.Round(time.Microsecond))
}
