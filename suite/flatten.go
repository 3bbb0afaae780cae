package suite

import (
	"math"
	"strings"

	"github.com/zwilias/node-test-runner/seed"
)

// Unit is one executable leaf paired with its ancestor labels, outermost
// first. Units are immutable once produced; only the delegate invokes Run.
type Unit struct {
	Labels []string
	Run    Thunk
}

// Path returns the concatenated label path of the unit.
func (u Unit) Path() string {
	return strings.Join(u.Labels, " ")
}

// Flatten walks the tree depth-first, left to right, and produces one unit
// per leaf in declaration order. The traversal uses an explicit work stack:
// nesting depth is limited by memory, not by the call stack.
//
// Property leaves are bound here to a per-leaf seed split off runSeed and to
// the configured trial count. No thunk is invoked; laziness is part of the
// contract.
func Flatten(root Node, runSeed int64, fuzzRuns int) []Unit {
	type frame struct {
		node   Node
		labels []string
	}

	var units []Unit
	gen := seed.NewGenerator(runSeed)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := f.node.(type) {
		case Leaf:
			run := t.Run
			if t.Fuzz != nil {
				var leafSeed int64
				leafSeed, gen = gen.Step(0, math.MaxInt32)
				fz, runs := t.Fuzz, fuzzRuns
				run = func() []Outcome { return fz(leafSeed, runs) }
			}
			units = append(units, Unit{Labels: f.labels, Run: run})

		case Labeled:
			labels := make([]string, len(f.labels)+1)
			copy(labels, f.labels)
			labels[len(f.labels)] = t.Label
			stack = append(stack, frame{node: t.Child, labels: labels})

		case Batch:
			// Push in reverse so children pop in declaration order.
			for i := len(t.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: t.Children[i], labels: f.labels})
			}
		}
	}
	return units
}
