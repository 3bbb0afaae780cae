// Package reporting turns a completed run into one of the supported report
// formats: chalk (colored console output), json, or junit.
package reporting

import (
	"fmt"
	"time"

	"github.com/zwilias/node-test-runner/types"
)

// Stats aggregates unit results for a run.
type Stats struct {
	Total  int
	Passed int
	Failed int
}

// Summary contains everything a formatter needs about a completed run.
type Summary struct {
	RunID    string
	Seed     int64
	FuzzRuns int
	Start    time.Time
	Duration time.Duration
	Paths    []string
	Results  []types.UnitResult
	Stats    Stats
}

// BuildSummary aggregates unit results in execution order.
func BuildSummary(runID string, initialSeed int64, fuzzRuns int, start time.Time, paths []string, results []types.UnitResult, end time.Time) *Summary {
	s := &Summary{
		RunID:    runID,
		Seed:     initialSeed,
		FuzzRuns: fuzzRuns,
		Start:    start,
		Duration: end.Sub(start),
		Paths:    paths,
		Results:  results,
	}
	for _, r := range results {
		s.Stats.Total++
		if r.Status() == types.UnitStatusPass {
			s.Stats.Passed++
		} else {
			s.Stats.Failed++
		}
	}
	return s
}

// Status reduces the run: pass only when every unit passed.
func (s *Summary) Status() types.UnitStatus {
	if s.Stats.Failed > 0 {
		return types.UnitStatusFail
	}
	return types.UnitStatusPass
}

// String returns a one-line human summary, suitable for logs and error
// messages.
func (s *Summary) String() string {
	return fmt.Sprintf("%d units: %d passed, %d failed (seed %d, %.1fs)",
		s.Stats.Total, s.Stats.Passed, s.Stats.Failed, s.Seed, s.Duration.Seconds())
}

// formatDuration renders a duration the way the console report shows it.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
