// Package telemetry wraps zerolog the way the teacher's main.go wraps the
// standard log package: terse, emoji-prefixed section banners plus
// per-field status lines, but structured so a real log pipeline can parse
// it. It also carries the original_source profiling counters
// (open_list_time, calc_homotopy_cum_time, ...) as opt-in PhaseStats.
package telemetry

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the module-wide structured logger. cmd/topopland and
// internal/planner both log through this.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Banner prints a section banner the way main.go's "========" delimiters
// do, but through the structured logger so it still lands in log output
// that gets shipped somewhere.
func Banner(title string) {
	Logger.Info().Msg("========================================")
	Logger.Info().Msg(title)
}

// PhaseStats accumulates named phase durations across every call tracked
// through it, mirroring the original's *_cum_time members; the totals are
// never reset. Disabled by default (zero-cost when Enabled is false).
type PhaseStats struct {
	Enabled bool

	mu     sync.Mutex
	totals map[string]time.Duration
}

// NewPhaseStats returns a stats collector, enabled or not.
func NewPhaseStats(enabled bool) *PhaseStats {
	return &PhaseStats{Enabled: enabled, totals: make(map[string]time.Duration)}
}

// Track records the duration of fn under the given phase name.
func (p *PhaseStats) Track(phase string, fn func()) {
	if p == nil || !p.Enabled {
		fn()
		return
	}
	start := time.Now()
	fn()
	elapsed := time.Since(start)

	p.mu.Lock()
	p.totals[phase] += elapsed
	p.mu.Unlock()
}

// Snapshot returns a copy of the accumulated per-phase totals.
func (p *PhaseStats) Snapshot() map[string]time.Duration {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.totals))
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}
