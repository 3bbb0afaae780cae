package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/zwilias/node-test-runner/suite"
)

const (
	// DefaultGoBinary is used when no explicit binary is configured.
	DefaultGoBinary = "go"

	// DefaultUnitTimeout bounds one unit's child process.
	DefaultUnitTimeout = 10 * time.Minute

	// seedEnvVar and fuzzRunsEnvVar export the run parameters to child
	// processes, so externally executed tests can reproduce a run too.
	seedEnvVar     = "NTR_SEED"
	fuzzRunsEnvVar = "NTR_FUZZ_RUNS"
)

// Executor backs manifest leaves: it runs one Go test function (or a whole
// package) through `go test -json` and converts the event stream into
// assertion outcomes. It implements registry.LeafRunner.
type Executor struct {
	workDir  string
	goBinary string
	timeout  time.Duration
	log      log.Logger

	// Bound once per process, before any unit runs.
	runSeed  int64
	fuzzRuns int
}

// ExecutorConfig holds configuration for creating an executor.
type ExecutorConfig struct {
	WorkDir  string
	GoBinary string
	Timeout  time.Duration
	Log      log.Logger
}

// NewExecutor validates the configuration and returns an executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work directory is required")
	}
	if cfg.GoBinary == "" {
		cfg.GoBinary = DefaultGoBinary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultUnitTimeout
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	return &Executor{
		workDir:  cfg.WorkDir,
		goBinary: cfg.GoBinary,
		timeout:  cfg.Timeout,
		log:      cfg.Log,
	}, nil
}

// BindRun fixes the seed and fuzz-run count exported to child processes.
// Called once, during delegate initialization; units only read these values.
func (e *Executor) BindRun(seed int64, fuzzRuns int) {
	e.runSeed = seed
	e.fuzzRuns = fuzzRuns
}

// RunTest executes one test function, or the whole package when name is
// empty. Failures of the child process are returned as failing outcomes,
// never as errors: they are data for the delegate.
func (e *Executor) RunTest(pkg, name string) []suite.Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	args := []string{"test", pkg, "-count=1", "-json"}
	if name != "" {
		args = append(args, "-run", fmt.Sprintf("^%s$", name))
	}

	cmd := exec.CommandContext(ctx, e.goBinary, args...)
	cmd.Dir = e.workDir
	cmd.Env = append(os.Environ(),
		seedEnvVar+"="+strconv.FormatInt(e.runSeed, 10),
		fuzzRunsEnvVar+"="+strconv.Itoa(e.fuzzRuns),
	)

	tail := newTailBuffer(0)
	cmd.Stdout = tail
	cmd.Stderr = tail

	e.log.Debug("Executing test", "package", pkg, "test", name, "binary", e.goBinary)
	runErr := cmd.Run()

	outcomes := parseTestOutput(tail.Bytes(), name)
	if ctx.Err() == context.DeadlineExceeded {
		return append(outcomes, suite.Outcome{
			Passed:  false,
			Message: fmt.Sprintf("test %s in %s timed out after %s", name, pkg, e.timeout),
		})
	}
	if runErr != nil && !anyFailed(outcomes) {
		// The process failed without a parseable failure event: build
		// failures, panics outside tests, and the like.
		return append(outcomes, suite.Outcome{
			Passed:  false,
			Message: fmt.Sprintf("go test failed: %v\n%s", runErr, tail.String()),
		})
	}
	if len(outcomes) == 0 {
		return []suite.Outcome{{
			Passed:  false,
			Message: fmt.Sprintf("no test output for %s in %s", name, pkg),
		}}
	}
	return outcomes
}

func anyFailed(outcomes []suite.Outcome) bool {
	for _, o := range outcomes {
		if !o.Passed {
			return true
		}
	}
	return false
}
