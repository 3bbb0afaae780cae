package reporting

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zwilias/node-test-runner/types"
	"github.com/zwilias/node-test-runner/ui"
)

// Formatter renders a run summary into one report format.
type Formatter interface {
	Format(s *Summary) (string, error)
}

// ForKind returns the formatter matching the report kind. The kind is
// validated at configuration time, so an unknown value here is a programming
// error.
func ForKind(kind types.ReportKind) (Formatter, error) {
	switch kind {
	case types.ReportChalk:
		return &ChalkFormatter{}, nil
	case types.ReportJSON:
		return &JSONFormatter{}, nil
	case types.ReportJUnit:
		return &JUnitFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

// Publish formats the summary and writes it to w.
func Publish(s *Summary, kind types.ReportKind, w io.Writer) error {
	f, err := ForKind(kind)
	if err != nil {
		return err
	}
	out, err := f.Format(s)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", kind, err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write %s report: %w", kind, err)
	}
	return nil
}

// ChalkFormatter renders colored console output: a per-unit table followed by
// failure details.
type ChalkFormatter struct{}

func (f *ChalkFormatter) Format(s *Summary) (string, error) {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(fmt.Sprintf("Test Run %s (%s)", s.RunID, formatDuration(s.Duration)))

	t.AppendHeader(table.Row{"Unit", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Unit", WidthMax: 70, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
	})

	for i, r := range s.Results {
		t.AppendRow(table.Row{
			treeLabel(r.Labels, i == len(s.Results)-1),
			formatDuration(r.Duration),
			statusString(r.Status()),
		})
	}

	if s.Status() == types.UnitStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("TOTAL %d (seed %d, fuzz %d)", s.Stats.Total, s.Seed, s.FuzzRuns),
		formatDuration(s.Duration),
		statusString(s.Status()),
	})
	t.Render()

	// Failure details below the table, one block per failing unit.
	for _, r := range s.Results {
		failures := r.Failures()
		if len(failures) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n%s %s\n", text.FgRed.Sprint("✗"), r.Path())
		for _, o := range failures {
			for _, line := range strings.Split(strings.TrimRight(o.Message, "\n"), "\n") {
				fmt.Fprintf(&buf, "    %s\n", line)
			}
		}
	}

	fmt.Fprintf(&buf, "\n%s\n", s.String())
	if s.Stats.Failed > 0 {
		fmt.Fprintf(&buf, "Re-run with --seed %d to reproduce this run.\n", s.Seed)
	}
	return buf.String(), nil
}

// treeLabel renders a unit's label path as an indented tree line.
func treeLabel(labels []string, isLast bool) string {
	if len(labels) == 0 {
		return "(unnamed)"
	}
	if len(labels) == 1 {
		return labels[0]
	}
	parents := make([]bool, len(labels)-2)
	return strings.Join(labels[:len(labels)-1], " ") + "\n" +
		ui.Prefix(isLast, parents) + labels[len(labels)-1]
}

func statusString(st types.UnitStatus) string {
	if st == types.UnitStatusPass {
		return "✓ pass"
	}
	return "✗ fail"
}

// JSONFormatter renders a machine-readable document. ANSI sequences in
// captured output are stripped.
type JSONFormatter struct{}

type jsonReport struct {
	RunID    string       `json:"runId"`
	Seed     int64        `json:"seed"`
	FuzzRuns int          `json:"fuzzRuns"`
	Start    string       `json:"start"`
	Duration float64      `json:"durationSeconds"`
	Paths    []string     `json:"paths"`
	Total    int          `json:"total"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Units    []jsonUnit   `json:"units"`
}

type jsonUnit struct {
	Labels   []string      `json:"labels"`
	Status   string        `json:"status"`
	Duration float64       `json:"durationSeconds"`
	Failures []jsonFailure `json:"failures,omitempty"`
}

type jsonFailure struct {
	Message string `json:"message"`
}

func (f *JSONFormatter) Format(s *Summary) (string, error) {
	doc := jsonReport{
		RunID:    s.RunID,
		Seed:     s.Seed,
		FuzzRuns: s.FuzzRuns,
		Start:    s.Start.UTC().Format("2006-01-02T15:04:05.000Z"),
		Duration: s.Duration.Seconds(),
		Paths:    s.Paths,
		Total:    s.Stats.Total,
		Passed:   s.Stats.Passed,
		Failed:   s.Stats.Failed,
		Units:    make([]jsonUnit, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		u := jsonUnit{
			Labels:   r.Labels,
			Status:   string(r.Status()),
			Duration: r.Duration.Seconds(),
		}
		for _, o := range r.Failures() {
			u.Failures = append(u.Failures, jsonFailure{Message: stripansi.Strip(o.Message)})
		}
		doc.Units = append(doc.Units, u)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// JUnitFormatter renders JUnit-style XML for CI systems.
type JUnitFormatter struct{}

type junitTestSuites struct {
	XMLName  xml.Name        `xml:"testsuites"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

func (f *JUnitFormatter) Format(s *Summary) (string, error) {
	suiteDoc := junitTestSuite{
		Name:     fmt.Sprintf("run %s", s.RunID),
		Tests:    s.Stats.Total,
		Failures: s.Stats.Failed,
		Time:     fmt.Sprintf("%.3f", s.Duration.Seconds()),
	}
	for _, r := range s.Results {
		tc := junitTestCase{
			Name:      r.Path(),
			ClassName: className(r.Labels),
			Time:      fmt.Sprintf("%.3f", r.Duration.Seconds()),
		}
		if failures := r.Failures(); len(failures) > 0 {
			var content strings.Builder
			for _, o := range failures {
				content.WriteString(stripansi.Strip(o.Message))
				content.WriteString("\n")
			}
			tc.Failure = &junitFailure{
				Message: "assertion failed",
				Content: content.String(),
			}
		}
		suiteDoc.Cases = append(suiteDoc.Cases, tc)
	}

	doc := junitTestSuites{
		Tests:    s.Stats.Total,
		Failures: s.Stats.Failed,
		Time:     fmt.Sprintf("%.3f", s.Duration.Seconds()),
		Suites:   []junitTestSuite{suiteDoc},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}

// className is the label path without the leaf, or the leaf itself for
// unlabeled units.
func className(labels []string) string {
	if len(labels) <= 1 {
		return strings.Join(labels, " ")
	}
	return strings.Join(labels[:len(labels)-1], " ")
}
