// Package runner is the default delegate: it receives the startup payload,
// invokes each unit exactly once in declaration order, and publishes the
// report when the last unit completes.
//
// The delegate itself never performs effects. It returns commands; the host
// performs them and feeds the resulting messages back through the lifecycle.
package runner

import (
	"context"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zwilias/node-test-runner/lifecycle"
	"github.com/zwilias/node-test-runner/logging"
	"github.com/zwilias/node-test-runner/metrics"
	"github.com/zwilias/node-test-runner/reporting"
	"github.com/zwilias/node-test-runner/suite"
	"github.com/zwilias/node-test-runner/types"
)

// Command is an effect produced by the delegate. The host performs it and
// dispatches the returned message, if any, back into the lifecycle.
type Command interface {
	Perform(ctx context.Context) lifecycle.Msg
}

// UnitCompleted reports the outcome of one executed unit.
type UnitCompleted struct {
	Index  int
	Result types.UnitResult
}

// Published reports that the run's report has been written.
type Published struct {
	Failed bool
}

// Config holds configuration for creating a delegate.
type Config struct {
	Log      log.Logger
	Executor *Executor // bound to the payload's seed on Init; may be nil
	Out      io.Writer // report destination
	LogDir   string    // base directory for failure logs; empty disables them
}

// Delegate implements lifecycle.Delegate.
type Delegate struct {
	config  Config
	tracer  trace.Tracer
	summary *reporting.Summary // set when the publish command runs
}

// New creates the default delegate.
func New(cfg Config) *Delegate {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	return &Delegate{
		config: cfg,
		tracer: otel.Tracer("runner"),
	}
}

// runState is the delegate's state between messages: the payload, a cursor
// into its units, and the results collected so far.
type runState struct {
	runID   string
	payload lifecycle.InitPayload
	next    int
	results []types.UnitResult
}

// Init stores the payload under a fresh run ID and schedules the first unit.
func (d *Delegate) Init(payload lifecycle.InitPayload) (lifecycle.State, lifecycle.Cmd) {
	if d.config.Executor != nil {
		d.config.Executor.BindRun(payload.InitialSeed, payload.FuzzRuns)
	}

	st := &runState{
		runID:   uuid.New().String(),
		payload: payload,
		results: make([]types.UnitResult, 0, len(payload.Units)),
	}
	d.config.Log.Info("Run initialized",
		"run_id", st.runID,
		"seed", payload.InitialSeed,
		"fuzz_runs", payload.FuzzRuns,
		"units", len(payload.Units),
		"report", payload.Report)

	return st, d.advance(st)
}

// Update folds one message into the run state.
func (d *Delegate) Update(msg lifecycle.Msg, state lifecycle.State) (lifecycle.State, lifecycle.Cmd) {
	st := state.(*runState)

	switch m := msg.(type) {
	case UnitCompleted:
		st.results = append(st.results, m.Result)
		st.next++
		return st, d.advance(st)
	case Published:
		// Terminal. The host reads the verdict from the message itself.
		return st, nil
	default:
		d.config.Log.Warn("Ignoring unexpected message", "msg", msg)
		return st, nil
	}
}

// Subscriptions is part of the delegate contract; this delegate needs none.
func (d *Delegate) Subscriptions(lifecycle.State) []lifecycle.Subscription {
	return nil
}

// Summary returns the published summary, or nil before publication.
func (d *Delegate) Summary() *reporting.Summary {
	return d.summary
}

// advance schedules the next unit, or publication once all units have run.
func (d *Delegate) advance(st *runState) lifecycle.Cmd {
	if st.next < len(st.payload.Units) {
		return &runUnitCommand{
			delegate: d,
			state:    st,
			index:    st.next,
			unit:     st.payload.Units[st.next],
		}
	}
	return &publishCommand{delegate: d, state: st}
}

// runUnitCommand invokes one unit's thunk. This is the only place a thunk is
// ever called, so each unit runs at most once.
type runUnitCommand struct {
	delegate *Delegate
	state    *runState
	index    int
	unit     suite.Unit
}

func (c *runUnitCommand) Perform(ctx context.Context) lifecycle.Msg {
	d := c.delegate
	path := c.unit.Path()

	_, span := d.tracer.Start(ctx, "unit")
	defer span.End()

	d.config.Log.Debug("Running unit", "run_id", c.state.runID, "unit", path)
	started := time.Now()
	outcomes := c.unit.Run()
	result := types.UnitResult{
		Labels:   c.unit.Labels,
		Outcomes: outcomes,
		Duration: time.Since(started),
	}

	metrics.RecordUnit(c.state.runID, result.Status())
	if result.Status() == types.UnitStatusFail {
		d.config.Log.Info("Unit failed", "run_id", c.state.runID, "unit", path,
			"failures", len(result.Failures()))
	}

	return UnitCompleted{Index: c.index, Result: result}
}

// publishCommand renders the report, stores failure logs, and emits the final
// verdict.
type publishCommand struct {
	delegate *Delegate
	state    *runState
}

func (c *publishCommand) Perform(ctx context.Context) lifecycle.Msg {
	d, st := c.delegate, c.state

	summary := reporting.BuildSummary(
		st.runID,
		st.payload.InitialSeed,
		st.payload.FuzzRuns,
		st.payload.StartTime,
		st.payload.Paths,
		st.results,
		time.Now(),
	)
	d.summary = summary

	if err := reporting.Publish(summary, st.payload.Report, d.config.Out); err != nil {
		d.config.Log.Error("Failed to publish report", "run_id", st.runID, "error", err)
		metrics.RecordError("publish_report")
	}

	d.writeFailureLogs(summary)
	metrics.RecordRun(st.runID, summary.Status(),
		summary.Stats.Total, summary.Stats.Passed, summary.Stats.Failed, summary.Duration)
	d.config.Log.Info("Run completed", "run_id", st.runID, "status", summary.Status())

	return Published{Failed: summary.Stats.Failed > 0}
}

func (d *Delegate) writeFailureLogs(summary *reporting.Summary) {
	if d.config.LogDir == "" || summary.Stats.Failed == 0 {
		return
	}
	fl, err := logging.NewFileLogger(d.config.LogDir, summary.RunID, d.config.Log)
	if err != nil {
		d.config.Log.Error("Failed to create failure log directory", "error", err)
		metrics.RecordError("failure_logs")
		return
	}
	for _, r := range summary.Results {
		failures := r.Failures()
		if len(failures) == 0 {
			continue
		}
		var content string
		for _, o := range failures {
			content += o.Message + "\n"
		}
		if err := fl.WriteFailure(r.Path(), content); err != nil {
			d.config.Log.Error("Failed to write failure log", "unit", r.Path(), "error", err)
		}
	}
}
