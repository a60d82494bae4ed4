// Package probe runs startup checks before the server accepts traffic.
// A failing critical check aborts startup. Optional checks only warn
// and the server runs degraded without them.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// checkTimeout bounds a single check so a dead network endpoint cannot
// stall startup.
const checkTimeout = 5 * time.Second

// CheckFunc performs one check. nil means the check passed.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // a failure aborts startup
}

// Result is the outcome of one probe.
type Result struct {
	Probe    Probe
	Err      error
	Duration time.Duration
}

// Run executes the probes in order and collects their results.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))
	for i, p := range probes {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Check(checkCtx)
		cancel()
		results[i] = Result{Probe: p, Err: err, Duration: time.Since(start)}
	}
	return results
}

// Evaluate logs every result and returns the joined critical failures,
// nil when startup may proceed.
func Evaluate(results []Result) error {
	var critical []error
	for _, r := range results {
		if r.Err == nil {
			slog.Info("Probe: Check passed", "name", r.Probe.Name, "duration", r.Duration.Round(time.Millisecond))
			continue
		}
		if r.Probe.Critical {
			slog.Error("Probe: Check failed", "name", r.Probe.Name, "error", r.Err)
			critical = append(critical, fmt.Errorf("%s: %w", r.Probe.Name, r.Err))
		} else {
			slog.Warn("Probe: Check failed, continuing without", "name", r.Probe.Name, "error", r.Err)
		}
	}
	return errors.Join(critical...)
}
