package ntr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zwilias/node-test-runner/types"
)

// StartupOptions is the structured startup value accepted on the machine
// interface (--options). A null document selects the defaults: no seed, no
// paths, chalk report.
type StartupOptions struct {
	Seed   *int64
	Paths  []string
	Report types.ReportKind
}

// DecodeStartupOptions decodes a JSON startup document. The seed is encoded
// as a string so callers on platforms without 64-bit integers can pass it
// losslessly. All failures here are configuration errors, fatal before any
// unit executes.
func DecodeStartupOptions(raw []byte) (*StartupOptions, error) {
	opts := &StartupOptions{
		Paths:  []string{},
		Report: types.ReportChalk,
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return opts, nil
	}

	var wire struct {
		Seed   *string  `json:"seed"`
		Paths  []string `json:"paths"`
		Report *string  `json:"report"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("invalid startup options: %w", err)
	}

	if wire.Seed != nil {
		n, err := strconv.ParseInt(*wire.Seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --seed argument: %s", *wire.Seed)
		}
		opts.Seed = &n
	}
	if wire.Paths != nil {
		opts.Paths = wire.Paths
	}
	if wire.Report != nil {
		kind, err := types.ParseReportKind(*wire.Report)
		if err != nil {
			return nil, err
		}
		opts.Report = kind
	}
	return opts, nil
}
