// Package suite models a declared test suite as an immutable tree and turns
// it into a flat, filtered sequence of executable units.
//
// A tree is built once, before any filtering or flattening, from three node
// kinds: Leaf (one runnable test or property-test generator), Labeled (a
// label wrapped around a subtree) and Batch (an ordered group of subtrees).
// Declaration order is preserved everywhere.
package suite

import "github.com/zwilias/node-test-runner/seed"

// Outcome is the result of a single assertion inside a unit. Outcomes are
// ordinary data: a failing outcome is handed to the delegate for reporting,
// never raised as an error by this package.
type Outcome struct {
	Passed  bool
	Message string
}

// Thunk is a deferred, zero-argument test computation. It must be free of
// side effects until invoked; the delegate invokes it at most once.
type Thunk func() []Outcome

// Node is one node of a suite tree.
type Node interface {
	node()
}

// Leaf is a single runnable test. Exactly one of Run or Fuzz is set: Run for
// plain tests, Fuzz for property tests that draw their cases from a per-leaf
// seed and the configured trial count.
type Leaf struct {
	Run  Thunk
	Fuzz func(leafSeed int64, runs int) []Outcome
}

// Labeled wraps a subtree with one label. Labels accumulate outermost-first
// on the way down to each leaf.
type Labeled struct {
	Label string
	Child Node
}

// Batch groups subtrees in declaration order without adding a label.
type Batch struct {
	Children []Node
}

func (Leaf) node()    {}
func (Labeled) node() {}
func (Batch) node()   {}

// Test declares a named test.
func Test(name string, run Thunk) Node {
	return Labeled{Label: name, Child: Leaf{Run: run}}
}

// Describe labels a group of subtrees.
func Describe(label string, children ...Node) Node {
	return Labeled{Label: label, Child: Batch{Children: children}}
}

// Concat groups subtrees without adding a label.
func Concat(children ...Node) Node {
	return Batch{Children: children}
}

// Fuzz declares a property test. prop is applied to runs values drawn from
// gen; the generator is seeded per leaf during flattening, so a run is fully
// reproducible from its printed seed.
func Fuzz(name string, gen func(seed.Generator) (int64, seed.Generator), prop func(int64) Outcome) Node {
	leaf := Leaf{Fuzz: func(leafSeed int64, runs int) []Outcome {
		g := seed.NewGenerator(leafSeed)
		outcomes := make([]Outcome, 0, runs)
		var v int64
		for i := 0; i < runs; i++ {
			v, g = gen(g)
			outcomes = append(outcomes, prop(v))
		}
		return outcomes
	}}
	return Labeled{Label: name, Child: leaf}
}
