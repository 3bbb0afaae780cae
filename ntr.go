// Package ntr wires the test-run orchestrator into a CLI service: it loads
// the declared suites, builds the guarded lifecycle around the default
// delegate, and drives the message loop until the report is published.
package ntr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/zwilias/node-test-runner/exitcodes"
	"github.com/zwilias/node-test-runner/lifecycle"
	"github.com/zwilias/node-test-runner/metrics"
	"github.com/zwilias/node-test-runner/registry"
	"github.com/zwilias/node-test-runner/runner"
)

// ntr implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &ntr{}

// ntr is the test-runner service: one process, one run.
type ntr struct {
	ctx      context.Context
	config   *Config
	version  string
	program  *lifecycle.Program
	delegate *runner.Delegate
	tracer   trace.Tracer

	running atomic.Bool
	failed  bool

	shutdownCallback func(error) // signals application shutdown
}

// New assembles the registry, delegate and lifecycle program. Everything
// that can be misconfigured fails here, before the run starts.
func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*ntr, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating runner with config",
		"paths", config.Paths,
		"workDir", config.WorkDir,
		"report", config.Report,
		"fuzzRuns", config.FuzzRuns,
		"seedOverride", config.Seed != nil)

	executor, err := runner.NewExecutor(runner.ExecutorConfig{
		WorkDir:  config.WorkDir,
		GoBinary: config.GoBinary,
		Timeout:  config.Timeout,
		Log:      config.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	reg, err := registry.NewRegistry(registry.Config{
		Log:     config.Log,
		WorkDir: config.WorkDir,
		Paths:   config.Paths,
		Runner:  executor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	delegate := runner.New(runner.Config{
		Log:      config.Log,
		Executor: executor,
		Out:      os.Stdout,
		LogDir:   config.LogDir,
	})

	program, err := lifecycle.New(lifecycle.Config{
		Root:         reg.SuiteTree(),
		SeedOverride: config.Seed,
		FuzzRuns:     config.FuzzRuns,
		Filters:      config.Filters,
		Paths:        config.Paths,
		Report:       config.Report,
	}, delegate)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle program: %w", err)
	}
	config.Log.Info("ntr.New: created registry and lifecycle program", "leaves", reg.Leaves())

	return &ntr{
		ctx:              ctx,
		config:           config,
		version:          version,
		program:          program,
		delegate:         delegate,
		tracer:           otel.Tracer("ntr"),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the suite once and exits.
// Start implements the cliapp.Lifecycle interface.
func (n *ntr) Start(ctx context.Context) error {
	// Panics are runtime errors, not test failures.
	defer func() {
		if r := recover(); r != nil {
			n.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	n.ctx = ctx
	n.running.Store(true)
	n.config.Log.Info("Starting test run", "version", n.version)

	if err := n.run(ctx); err != nil {
		return err
	}

	if n.failed {
		summary := n.delegate.Summary()
		n.config.Log.Warn("Run completed with failures, returning exit code 1")
		return NewTestFailureError(summary.String())
	}

	go func() {
		n.shutdownCallback(nil)
	}()
	return nil
}

// run drives the lifecycle: one Init carrying the current time, then the
// delegate's command/message cycle until it goes quiet. Requesting the time
// is the only suspension point before initialization; everything the Init
// transition does afterwards is synchronous.
func (n *ntr) run(ctx context.Context) error {
	spanCtx, span := n.tracer.Start(ctx, "run")
	defer span.End()

	cmd, err := n.program.Step(lifecycle.Init{Time: time.Now()})
	for {
		if err != nil {
			return n.fault(err)
		}
		if cmd == nil {
			return nil
		}

		command, ok := cmd.(runner.Command)
		if !ok {
			return n.fault(fmt.Errorf("delegate emitted unknown command type %T", cmd))
		}

		msg := command.Perform(spanCtx)
		if msg == nil {
			return nil
		}
		if published, ok := msg.(runner.Published); ok {
			n.failed = published.Failed
		}
		cmd, err = n.program.Step(msg)
	}
}

// fault maps a lifecycle fault onto an unrecoverable runtime error.
func (n *ntr) fault(err error) error {
	n.config.Log.Error("Aborting run", "error", err)
	metrics.RecordError("lifecycle_fault")
	return NewRuntimeError(err)
}

// Stop stops the service.
// Stop implements the cliapp.Lifecycle interface.
func (n *ntr) Stop(ctx context.Context) error {
	n.config.Log.Info("Stopping test runner")

	if !n.running.Load() {
		n.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}
	n.running.Store(false)

	n.config.Log.Info("Test runner stopped")
	return nil
}

// Stopped returns true if the service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (n *ntr) Stopped() bool {
	return !n.running.Load()
}
