package suite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwilias/node-test-runner/seed"
)

func passingTest(name string) Node {
	return Test(name, func() []Outcome {
		return []Outcome{{Passed: true}}
	})
}

func TestFlattenPreservesDeclarationOrder(t *testing.T) {
	tree := Concat(
		Concat(passingTest("A"), passingTest("B")),
		passingTest("C"),
	)

	units := Flatten(tree, 1, 100)

	require.Len(t, units, 3)
	assert.Equal(t, []string{"A"}, units[0].Labels)
	assert.Equal(t, []string{"B"}, units[1].Labels)
	assert.Equal(t, []string{"C"}, units[2].Labels)
}

func TestFlattenLabelStacksOutermostFirst(t *testing.T) {
	tree := Describe("outer",
		Describe("inner",
			passingTest("leaf"),
		),
		passingTest("sibling"),
	)

	units := Flatten(tree, 1, 100)

	require.Len(t, units, 2)
	assert.Equal(t, []string{"outer", "inner", "leaf"}, units[0].Labels)
	assert.Equal(t, []string{"outer", "sibling"}, units[1].Labels)
	assert.Equal(t, "outer inner leaf", units[0].Path())
}

func TestFlattenDoesNotInvokeThunks(t *testing.T) {
	invoked := 0
	tree := Describe("group",
		Test("a", func() []Outcome { invoked++; return nil }),
		Test("b", func() []Outcome { invoked++; return nil }),
	)

	units := Flatten(tree, 1, 100)

	require.Len(t, units, 2)
	assert.Zero(t, invoked, "flattening must not run any test")

	units[0].Run()
	assert.Equal(t, 1, invoked)
}

func TestFlattenDeepNesting(t *testing.T) {
	// Deep enough to overflow a call stack if the traversal recursed.
	const depth = 200_000

	var tree Node = passingTest("leaf")
	for i := 0; i < depth; i++ {
		tree = Batch{Children: []Node{tree}}
	}

	units := Flatten(tree, 1, 100)
	require.Len(t, units, 1)
	assert.Equal(t, []string{"leaf"}, units[0].Labels)
}

func TestFlattenBindsFuzzLeavesDeterministically(t *testing.T) {
	gen := func(g seed.Generator) (int64, seed.Generator) {
		return g.Step(0, 1_000_000)
	}
	tree := Concat(
		Fuzz("p1", gen, func(v int64) Outcome {
			return Outcome{Passed: true, Message: fmt.Sprintf("%d", v)}
		}),
		Fuzz("p2", gen, func(v int64) Outcome {
			return Outcome{Passed: true, Message: fmt.Sprintf("%d", v)}
		}),
	)

	first := Flatten(tree, 1234, 5)
	second := Flatten(tree, 1234, 5)
	require.Len(t, first, 2)

	for i := range first {
		a := first[i].Run()
		b := second[i].Run()
		require.Len(t, a, 5, "fuzz leaf honors the trial count")
		assert.Equal(t, a, b, "same run seed must generate the same cases")
	}

	// Sibling fuzz leaves draw distinct per-leaf seeds.
	assert.NotEqual(t, first[0].Run(), first[1].Run())
}
