// Package lifecycle sequences the two-phase startup of a test run.
//
// A Program starts Uninitialized, holding its pending configuration. The one
// legal transition out of that state is an Init message carrying the current
// time: the program derives the run seed, applies the filter pipeline,
// flattens the suite tree and hands the resulting payload to the delegate.
// From then on every message is forwarded to the delegate's update function.
// Any other ordering is a programming error, reported as a Fault that hosts
// must treat as fatal.
package lifecycle

import (
	"time"

	"github.com/zwilias/node-test-runner/seed"
	"github.com/zwilias/node-test-runner/suite"
	"github.com/zwilias/node-test-runner/types"
)

// DefaultFuzzRuns is the number of generated trials per property test when
// the caller supplies no override.
const DefaultFuzzRuns = 100

// Msg is a message dispatched into a Program. Init is the only message the
// lifecycle itself interprets; everything else belongs to the delegate.
type Msg any

// Init triggers the startup transition. Time is the resolved current time;
// requesting it is the host's only suspension point before initialization.
type Init struct {
	Time time.Time
}

// State is opaque delegate state. The lifecycle stores it between messages
// but never inspects it.
type State = any

// Cmd is an opaque command emitted by the delegate for the host to perform.
type Cmd = any

// Subscription is an opaque delegate subscription.
type Subscription = any

// Delegate is the runner-specific collaborator that actually invokes units
// and renders output.
type Delegate interface {
	Init(payload InitPayload) (State, Cmd)
	Update(msg Msg, state State) (State, Cmd)
	Subscriptions(state State) []Subscription
}

// InitPayload is handed to the delegate exactly once, on the startup
// transition.
type InitPayload struct {
	InitialSeed int64
	FuzzRuns    int
	StartTime   time.Time
	Paths       []string
	Include     string // empty when no include filter was supplied
	Exclude     string // empty when no exclude filter was supplied
	Units       []suite.Unit
	Report      types.ReportKind
}

// Config is the pending configuration held while Uninitialized.
type Config struct {
	Root         suite.Node
	SeedOverride *int64
	FuzzRuns     int // 0 means DefaultFuzzRuns
	Filters      []suite.Spec
	Paths        []string
	Report       types.ReportKind
}

// Fault marks a lifecycle ordering violation. It is a programming error, not
// a recoverable condition: hosts must abort without attempting partial
// recovery.
type Fault struct {
	Reason string
}

func (f *Fault) Error() string {
	return "lifecycle fault: " + f.Reason
}

type phase int

const (
	uninitialized phase = iota
	initialized
)

// Program is the guarded two-state lifecycle. Exactly one initialization is
// legal per program; there is no transition back.
type Program struct {
	phase    phase
	config   Config
	pipeline *suite.Pipeline
	delegate Delegate
	state    State
}

// New compiles the filter pipeline and returns a program in the
// Uninitialized state. A malformed filter pattern is a configuration error
// and is reported here, before any traversal.
func New(cfg Config, delegate Delegate) (*Program, error) {
	pipeline, err := suite.NewPipeline(cfg.Filters)
	if err != nil {
		return nil, err
	}
	return &Program{
		config:   cfg,
		pipeline: pipeline,
		delegate: delegate,
	}, nil
}

// Step advances the lifecycle with one message and returns the delegate's
// command. Illegal orderings return a *Fault and leave the program untouched.
func (p *Program) Step(msg Msg) (Cmd, error) {
	init, isInit := msg.(Init)

	switch p.phase {
	case uninitialized:
		if !isInit {
			return nil, &Fault{Reason: "message delivered before initialization"}
		}
		state, cmd := p.delegate.Init(p.startupPayload(init.Time))
		p.state = state
		p.phase = initialized
		return cmd, nil

	default: // initialized
		if isInit {
			return nil, &Fault{Reason: "initialization attempted twice"}
		}
		state, cmd := p.delegate.Update(msg, p.state)
		p.state = state
		return cmd, nil
	}
}

// Subscriptions exposes the delegate's subscriptions for its current state.
// Before initialization there is no delegate state and the set is empty.
func (p *Program) Subscriptions() []Subscription {
	if p.phase != initialized {
		return nil
	}
	return p.delegate.Subscriptions(p.state)
}

// startupPayload runs the one-shot seed/filter/flatten pipeline. Everything
// here is synchronous and deterministic with respect to its inputs.
func (p *Program) startupPayload(now time.Time) InitPayload {
	runSeed := seed.Derive(func() int64 { return now.UnixMilli() }, p.config.SeedOverride)

	runs := p.config.FuzzRuns
	if runs <= 0 {
		runs = DefaultFuzzRuns
	}

	filtered := p.pipeline.Apply(p.config.Root)
	units := suite.Flatten(filtered, runSeed, runs)

	var include, exclude string
	for _, s := range p.config.Filters {
		if s.Include && include == "" {
			include = s.Pattern
		}
		if !s.Include && exclude == "" {
			exclude = s.Pattern
		}
	}

	return InitPayload{
		InitialSeed: runSeed,
		FuzzRuns:    runs,
		StartTime:   now,
		Paths:       p.config.Paths,
		Include:     include,
		Exclude:     exclude,
		Units:       units,
		Report:      p.config.Report,
	}
}
