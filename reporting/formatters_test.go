package reporting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwilias/node-test-runner/suite"
	"github.com/zwilias/node-test-runner/types"
)

func sampleSummary() *Summary {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []types.UnitResult{
		{
			Labels:   []string{"math", "addition works"},
			Outcomes: []suite.Outcome{{Passed: true}},
			Duration: 120 * time.Millisecond,
		},
		{
			Labels: []string{"math", "subtraction works"},
			Outcomes: []suite.Outcome{
				{Passed: false, Message: "\x1b[31mexpected 1, got 2\x1b[0m"},
			},
			Duration: 80 * time.Millisecond,
		},
	}
	return BuildSummary("run-1", 4242, 100, start, []string{"a.test"}, results, start.Add(time.Second))
}

func TestBuildSummaryStats(t *testing.T) {
	s := sampleSummary()

	assert.Equal(t, 2, s.Stats.Total)
	assert.Equal(t, 1, s.Stats.Passed)
	assert.Equal(t, 1, s.Stats.Failed)
	assert.Equal(t, types.UnitStatusFail, s.Status())
	assert.Equal(t, time.Second, s.Duration)
}

func TestChalkFormatter(t *testing.T) {
	out, err := (&ChalkFormatter{}).Format(sampleSummary())
	require.NoError(t, err)

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "subtraction works")
	assert.Contains(t, out, "expected 1, got 2")
	assert.Contains(t, out, "--seed 4242", "failing runs advertise the reproduction seed")
}

func TestJSONFormatterStripsANSI(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(sampleSummary())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, float64(4242), doc["seed"])
	assert.Equal(t, float64(2), doc["total"])

	assert.NotContains(t, out, "\x1b[31m", "ANSI escapes must not leak into machine output")
	assert.Contains(t, out, "expected 1, got 2")
}

func TestJUnitFormatter(t *testing.T) {
	out, err := (&JUnitFormatter{}).Format(sampleSummary())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `tests="2"`)
	assert.Contains(t, out, `failures="1"`)
	assert.Contains(t, out, `name="math subtraction works"`)
	assert.Contains(t, out, `classname="math"`)
	assert.NotContains(t, out, "\x1b[31m")
}

func TestPublishUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := Publish(sampleSummary(), types.ReportKind("bogus"), &buf)
	require.Error(t, err)
}

func TestPublishWritesReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Publish(sampleSummary(), types.ReportJSON, &buf))
	assert.True(t, json.Valid(buf.Bytes()))
}
