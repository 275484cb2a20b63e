package bench

import (
	"context"
	"errors"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/runbookd/urimod/packages/module"
	"github.com/runbookd/urimod/packages/params"
)

// Options controls the repeat loop.
type Options struct {
	Count int     // number of iterations, minimum 1
	Rate  float64 // target requests per second, 0 for unpaced
}

// Summary aggregates the latencies of all iterations.
type Summary struct {
	Count    int
	Errors   int
	Duration time.Duration
	Min      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

// Run executes the spec Count times in sequence. Remote and transport
// failures are counted and the loop continues; a ConfigError aborts
// immediately since it would repeat identically.
func Run(ctx context.Context, spec *params.Spec, opts Options) (*Summary, error) {
	if opts.Count < 1 {
		opts.Count = 1
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	// Histogram: 1us to 60s range, 3 significant digits
	hist := hdrhistogram.New(1, 60_000_000, 3)
	executor := module.NewExecutor()

	failures := 0
	start := time.Now()

	for i := 0; i < opts.Count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		iterStart := time.Now()
		_, err := executor.Run(ctx, spec)
		elapsed := time.Since(iterStart)

		if err != nil {
			var configErr *params.ConfigError
			if errors.As(err, &configErr) {
				return nil, err
			}
			failures++
		}

		_ = hist.RecordValue(elapsed.Microseconds())
	}

	return &Summary{
		Count:    opts.Count,
		Errors:   failures,
		Duration: time.Since(start),
		Min:      time.Duration(hist.Min()) * time.Microsecond,
		Mean:     time.Duration(hist.Mean() * float64(time.Microsecond)),
		P50:      time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P95:      time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:      time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Max:      time.Duration(hist.Max()) * time.Microsecond,
	}, nil
}
