package types

import (
	"strings"
	"time"

	"github.com/zwilias/node-test-runner/suite"
)

// UnitStatus summarizes the outcomes of one executed unit.
type UnitStatus string

const (
	UnitStatusPass UnitStatus = "pass"
	UnitStatusFail UnitStatus = "fail"
)

// UnitResult captures the execution of a single labeled unit. Outcomes are
// data returned by the unit's thunk; a failing outcome is not an error of the
// orchestrator.
type UnitResult struct {
	Labels   []string
	Outcomes []suite.Outcome
	Duration time.Duration
}

// Path returns the unit's concatenated label path.
func (r UnitResult) Path() string {
	return strings.Join(r.Labels, " ")
}

// Status reduces the outcomes: a unit passes only when every assertion passed.
func (r UnitResult) Status() UnitStatus {
	for _, o := range r.Outcomes {
		if !o.Passed {
			return UnitStatusFail
		}
	}
	return UnitStatusPass
}

// Failures returns the failing outcomes in order.
func (r UnitResult) Failures() []suite.Outcome {
	var failed []suite.Outcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}
