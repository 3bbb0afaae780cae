// Package exitcodes defines the standard exit codes used by the test runner.
package exitcodes

// Exit code constants:
//
// * Success (0): every unit passed
// * TestFailure (1): one or more units failed an assertion
// * RuntimeErr (2): configuration errors, lifecycle faults, panics
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
