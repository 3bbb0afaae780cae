package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixTopLevel(t *testing.T) {
	assert.Equal(t, TreeBranch, Prefix(false, nil))
	assert.Equal(t, TreeLastBranch, Prefix(true, nil))
}

func TestPrefixNested(t *testing.T) {
	// Ancestor still has siblings below it, so its column keeps the rail.
	assert.Equal(t, TreeContinue+TreeBranch, Prefix(false, []bool{false}))
	// Ancestor was the last of its siblings, so its column is blank.
	assert.Equal(t, TreeIndent+TreeLastBranch, Prefix(true, []bool{true}))
}

func TestPrefixDeep(t *testing.T) {
	got := Prefix(true, []bool{false, true})
	assert.Equal(t, TreeContinue+TreeIndent+TreeLastBranch, got)
}
