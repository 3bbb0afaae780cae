package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePassingTest(t *testing.T) {
	output := []byte(`{"Action":"run","Package":"example.com/m/pkg","Test":"TestFoo"}
{"Action":"output","Package":"example.com/m/pkg","Test":"TestFoo","Output":"=== RUN   TestFoo\n"}
{"Action":"pass","Package":"example.com/m/pkg","Test":"TestFoo","Elapsed":0.01}
{"Action":"pass","Package":"example.com/m/pkg","Elapsed":0.05}
`)

	outcomes := parseTestOutput(output, "TestFoo")
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Passed)
}

func TestParseFailingTestCarriesOutput(t *testing.T) {
	output := []byte(`{"Action":"run","Test":"TestFoo"}
{"Action":"output","Test":"TestFoo","Output":"=== RUN   TestFoo\n"}
{"Action":"output","Test":"TestFoo","Output":"    foo_test.go:12: expected 1, got 2\n"}
{"Action":"fail","Test":"TestFoo","Elapsed":0.01}
`)

	outcomes := parseTestOutput(output, "TestFoo")
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Passed)
	assert.Contains(t, outcomes[0].Message, "expected 1, got 2")
	assert.True(t, strings.HasPrefix(outcomes[0].Message, "TestFoo:"))
}

func TestParseSubtests(t *testing.T) {
	output := []byte(`{"Action":"pass","Test":"TestFoo/one"}
{"Action":"output","Test":"TestFoo/two","Output":"    nope\n"}
{"Action":"fail","Test":"TestFoo/two"}
{"Action":"pass","Test":"TestFoo"}
`)

	outcomes := parseTestOutput(output, "TestFoo")
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Passed)
	assert.False(t, outcomes[1].Passed)
	assert.True(t, outcomes[2].Passed)
}

func TestParseIgnoresOtherTests(t *testing.T) {
	output := []byte(`{"Action":"fail","Test":"TestBar"}
{"Action":"fail","Test":"TestFooBar"}
{"Action":"pass","Test":"TestFoo"}
`)

	outcomes := parseTestOutput(output, "TestFoo")
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Passed)
}

func TestParsePackageMode(t *testing.T) {
	output := []byte(`{"Action":"pass","Test":"TestA"}
{"Action":"fail","Test":"TestB"}
`)

	outcomes := parseTestOutput(output, "")
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Passed)
	assert.False(t, outcomes[1].Passed)
}

func TestParseSkipCountsAsPass(t *testing.T) {
	output := []byte(`{"Action":"skip","Test":"TestFoo"}`)

	outcomes := parseTestOutput(output, "TestFoo")
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Passed)
}

func TestParseGarbageAndEmptyInput(t *testing.T) {
	assert.Empty(t, parseTestOutput(nil, "TestFoo"))
	assert.Empty(t, parseTestOutput([]byte("not json at all\n{broken"), "TestFoo"))
}

func TestTailBufferKeepsTail(t *testing.T) {
	b := newTailBuffer(8)
	_, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)

	assert.Equal(t, "23456789", string(b.Bytes()))
	assert.True(t, strings.HasPrefix(b.String(), "[...output truncated...]"))

	small := newTailBuffer(100)
	_, err = small.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", small.String())
}
