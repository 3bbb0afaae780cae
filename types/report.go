package types

import "fmt"

// ReportKind selects the output format for a run's report.
type ReportKind string

const (
	// ReportChalk is colored, human-readable console output. It is the default.
	ReportChalk ReportKind = "chalk"
	// ReportJSON is a machine-readable JSON document.
	ReportJSON ReportKind = "json"
	// ReportJUnit is JUnit-style XML, for CI systems.
	ReportJUnit ReportKind = "junit"
)

// ParseReportKind validates a --report value. The message format is part of
// the CLI contract.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(s) {
	case ReportChalk, ReportJSON, ReportJUnit:
		return ReportKind(s), nil
	default:
		return "", fmt.Errorf("Invalid --report argument: %s", s)
	}
}
