// Package seed derives the numeric seed that makes a test run reproducible.
//
// The derivation is a pure function of the startup timestamp: two runs started
// at the same millisecond, with no explicit override, always produce the same
// seed. Re-supplying a printed seed via --seed replays the exact run.
package seed

import "math"

// MinDerived is the smallest seed the derivation can produce. Explicit
// overrides below this value are still honored verbatim.
const MinDerived = 100

// maxDerived bounds derived seeds so they stay printable and portable.
const maxDerived = math.MaxInt32

// Generator is a splittable pseudo-random generator. Generators are immutable
// values; Step returns the advanced generator alongside the drawn value, so
// the same generator always yields the same sequence.
type Generator struct {
	state uint64
}

// NewGenerator seeds a generator. The same seed always produces the same
// generator.
func NewGenerator(s int64) Generator {
	return Generator{state: uint64(s)}
}

// Step draws one integer in [lo, hi) and returns the successor generator.
// The receiver is unchanged.
func (g Generator) Step(lo, hi int64) (int64, Generator) {
	next := g.state + 0x9e3779b97f4a7c15
	z := next
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return lo + int64(z%uint64(hi-lo)), Generator{state: next}
}

// Derive computes the seed for a run. When override is non-nil it is used
// verbatim and the timestamp is never consulted; otherwise the truncated
// timestamp (milliseconds) seeds a generator and a single step draws the seed
// from [MinDerived, maxDerived). Derive cannot fail.
//
// The timestamp is passed as a thunk so callers can verify the override path
// never touches the clock.
func Derive(timestamp func() int64, override *int64) int64 {
	if override != nil {
		return *override
	}
	g := NewGenerator(timestamp())
	s, _ := g.Step(MinDerived, maxDerived)
	return s
}
