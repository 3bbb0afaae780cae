package flags

import (
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "NTR"

var (
	Report = &cli.StringFlag{
		Name:    "report",
		Value:   "chalk",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REPORT"),
		Usage:   "Report format: 'json', 'chalk' or 'junit'",
	}
	Seed = &cli.StringFlag{
		Name:    "seed",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SEED"),
		Usage:   "Explicit run seed (integer). Omit to derive one from the start time.",
	}
	FuzzRuns = &cli.IntFlag{
		Name:    "fuzz",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FUZZ"),
		Usage:   "Number of generated trials per property test (default 100)",
	}
	Include = &cli.StringFlag{
		Name:    "include",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "INCLUDE"),
		Usage:   "Only run units whose label path matches this pattern",
	}
	Exclude = &cli.StringFlag{
		Name:    "exclude",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EXCLUDE"),
		Usage:   "Skip units whose label path matches this pattern",
	}
	Options = &cli.StringFlag{
		Name:    "options",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OPTIONS"),
		Usage:   "Startup options as a JSON document; individual flags override it",
	}
	WorkDir = &cli.StringFlag{
		Name:    "workdir",
		Value:   ".",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "WORKDIR"),
		Usage:   "Directory from which manifest packages are resolved",
	}
	GoBinary = &cli.StringFlag{
		Name:    "go-binary",
		Value:   "go",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "GO_BINARY"),
		Usage:   "Path to the Go binary used to run manifest tests",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store per-run failure logs",
	}
	UnitTimeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   10 * time.Minute,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Timeout for a single unit's child process",
	}
)

var Flags []cli.Flag

func init() {
	Flags = []cli.Flag{
		Report,
		Seed,
		FuzzRuns,
		Include,
		Exclude,
		Options,
		WorkDir,
		GoBinary,
		LogDir,
		UnitTimeout,
	}
	Flags = append(Flags, oplog.CLIFlags(EnvVarPrefix)...)
}
