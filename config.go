package ntr

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/zwilias/node-test-runner/flags"
	"github.com/zwilias/node-test-runner/suite"
	"github.com/zwilias/node-test-runner/types"
)

// Config holds the application configuration.
type Config struct {
	Paths    []string        // suite manifest files, in declaration order
	Seed     *int64          // explicit seed override; nil derives one
	FuzzRuns int             // 0 means the default of 100
	Report   types.ReportKind
	Filters  []suite.Spec    // include/exclude, in application order
	WorkDir  string          // directory manifest packages resolve against
	GoBinary string          // Go binary for manifest tests
	LogDir   string          // per-run failure logs
	Timeout  time.Duration   // child process timeout per unit
	Log      log.Logger
}

// NewConfig builds the configuration from the CLI context. The structured
// --options document is decoded first; individual flags and positional
// manifest paths override it. All validation happens here, before anything
// runs.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	opts, err := DecodeStartupOptions([]byte(ctx.String(flags.Options.Name)))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet(flags.Seed.Name) {
		raw := ctx.String(flags.Seed.Name)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --seed argument: %s", raw)
		}
		opts.Seed = &n
	}
	if ctx.IsSet(flags.Report.Name) {
		kind, err := types.ParseReportKind(ctx.String(flags.Report.Name))
		if err != nil {
			return nil, err
		}
		opts.Report = kind
	}
	if args := ctx.Args().Slice(); len(args) > 0 {
		opts.Paths = args
	}

	// Include before exclude: each step narrows the previous one's output.
	var filters []suite.Spec
	if pattern := ctx.String(flags.Include.Name); pattern != "" {
		filters = append(filters, suite.Spec{Include: true, Pattern: pattern})
	}
	if pattern := ctx.String(flags.Exclude.Name); pattern != "" {
		filters = append(filters, suite.Spec{Include: false, Pattern: pattern})
	}

	workDir, err := filepath.Abs(ctx.String(flags.WorkDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}
	logDir, err := filepath.Abs(ctx.String(flags.LogDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log directory: %w", err)
	}

	return &Config{
		Paths:    opts.Paths,
		Seed:     opts.Seed,
		FuzzRuns: ctx.Int(flags.FuzzRuns.Name),
		Report:   opts.Report,
		Filters:  filters,
		WorkDir:  workDir,
		GoBinary: ctx.String(flags.GoBinary.Name),
		LogDir:   logDir,
		Timeout:  ctx.Duration(flags.UnitTimeout.Name),
		Log:      logger,
	}, nil
}
