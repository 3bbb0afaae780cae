package runner

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zwilias/node-test-runner/suite"
)

// Go test2json action constants.
// See https://cs.opensource.google/go/go/+/master:src/cmd/test2json/main.go
const (
	actionRun    = "run"
	actionPass   = "pass"
	actionFail   = "fail"
	actionSkip   = "skip"
	actionOutput = "output"
)

// testEvent is one line of `go test -json` output.
type testEvent struct {
	Action  string `json:"Action"`
	Package string `json:"Package"`
	Test    string `json:"Test"`
	Output  string `json:"Output"`
}

// parseTestOutput converts a test2json event stream into one outcome per
// terminal test event, in completion order. Output lines are accumulated per
// test so a failing outcome carries its own log.
//
// funcName narrows interest to a single function and its subtests; when
// empty, every test in the package counts.
func parseTestOutput(raw []byte, funcName string) []suite.Outcome {
	var outcomes []suite.Outcome
	outputs := make(map[string][]string)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		if event.Test == "" || !relevantTest(event.Test, funcName) {
			continue
		}

		switch event.Action {
		case actionOutput:
			outputs[event.Test] = append(outputs[event.Test], event.Output)
		case actionPass:
			outcomes = append(outcomes, suite.Outcome{Passed: true})
		case actionSkip:
			// Skipped tests pass from the orchestrator's point of view;
			// the skip reason stays in the captured output.
			outcomes = append(outcomes, suite.Outcome{Passed: true})
		case actionFail:
			outcomes = append(outcomes, suite.Outcome{
				Passed:  false,
				Message: failureMessage(event.Test, outputs[event.Test]),
			})
		}
	}
	return outcomes
}

// relevantTest reports whether the event's test belongs to funcName (itself
// or one of its subtests).
func relevantTest(test, funcName string) bool {
	if funcName == "" {
		return true
	}
	return test == funcName || strings.HasPrefix(test, funcName+"/")
}

func failureMessage(test string, output []string) string {
	msg := strings.TrimSpace(strings.Join(output, ""))
	if msg == "" {
		return fmt.Sprintf("%s failed with no output", test)
	}
	return fmt.Sprintf("%s:\n%s", test, msg)
}
