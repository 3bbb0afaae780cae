package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatPaths(n Node) []string {
	units := Flatten(n, 1, 100)
	paths := make([]string, 0, len(units))
	for _, u := range units {
		paths = append(paths, u.Path())
	}
	return paths
}

func TestEmptyPipelineIsIdentity(t *testing.T) {
	p, err := NewPipeline(nil)
	require.NoError(t, err)

	tree := Describe("root",
		passingTest("FooBar"),
		passingTest("Baz"),
	)

	assert.Equal(t, flatPaths(tree), flatPaths(p.Apply(tree)))
}

func TestIncludeRetainsMatchingLeaves(t *testing.T) {
	p, err := NewPipeline([]Spec{{Include: true, Pattern: "Foo"}})
	require.NoError(t, err)

	tree := Concat(
		passingTest("FooBar"),
		passingTest("Baz"),
	)

	assert.Equal(t, []string{"FooBar"}, flatPaths(p.Apply(tree)))
}

func TestExcludeDropsMatchingLeaves(t *testing.T) {
	p, err := NewPipeline([]Spec{{Include: false, Pattern: "Baz"}})
	require.NoError(t, err)

	tree := Concat(
		passingTest("FooBar"),
		passingTest("Baz"),
	)

	assert.Equal(t, []string{"FooBar"}, flatPaths(p.Apply(tree)))
}

func TestFilterMatchesFullLabelPath(t *testing.T) {
	p, err := NewPipeline([]Spec{{Include: true, Pattern: "outer inner"}})
	require.NoError(t, err)

	tree := Concat(
		Describe("outer",
			Describe("inner", passingTest("kept")),
			passingTest("dropped"),
		),
		passingTest("alone"),
	)

	assert.Equal(t, []string{"outer inner kept"}, flatPaths(p.Apply(tree)))
}

func TestFilterOrderIsSignificant(t *testing.T) {
	// Include first, then exclude narrows the included set further.
	p, err := NewPipeline([]Spec{
		{Include: true, Pattern: "Foo"},
		{Include: false, Pattern: "Skip"},
	})
	require.NoError(t, err)

	tree := Concat(
		passingTest("FooKeep"),
		passingTest("FooSkip"),
		passingTest("Bar"),
	)

	assert.Equal(t, []string{"FooKeep"}, flatPaths(p.Apply(tree)))
}

func TestFilterDropsEmptyBranches(t *testing.T) {
	p, err := NewPipeline([]Spec{{Include: true, Pattern: "other"}})
	require.NoError(t, err)

	tree := Describe("group", passingTest("leaf"))

	filtered := p.Apply(tree)
	assert.Empty(t, flatPaths(filtered))
	assert.Equal(t, Batch{}, filtered, "a fully pruned tree collapses to an empty batch")
}

func TestPipelineRejectsMalformedPattern(t *testing.T) {
	_, err := NewPipeline([]Spec{{Include: true, Pattern: "("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}
