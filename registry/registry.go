// Package registry loads suite manifests and builds the declared suite tree.
//
// A manifest is a YAML document of nested labeled groups. Each entry names a
// Go package and optionally a single test function; with run_all the package
// is expanded into one leaf per discovered Test function. Leaves are lazy:
// the registry never executes anything.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/zwilias/node-test-runner/suite"
	"github.com/zwilias/node-test-runner/testlist"
)

// Manifest is the root of one suite declaration file.
type Manifest struct {
	Groups []Group `yaml:"groups"`
}

// Group is a labeled collection of entries and nested groups.
type Group struct {
	Label  string  `yaml:"label"`
	Tests  []Entry `yaml:"tests,omitempty"`
	Groups []Group `yaml:"groups,omitempty"`
}

// Entry names one test, one whole package, or (with run_all) every test
// function the package declares.
type Entry struct {
	Name    string `yaml:"name,omitempty"`
	Package string `yaml:"package"`
	RunAll  bool   `yaml:"run_all,omitempty"`
}

// LeafRunner produces the deferred computation backing a manifest entry. An
// empty test name means the whole package.
type LeafRunner interface {
	RunTest(pkg, name string) []suite.Outcome
}

// Config contains registry configuration.
type Config struct {
	Log     log.Logger
	WorkDir string
	Paths   []string
	Runner  LeafRunner
}

// Registry holds the suite tree declared by the loaded manifests.
type Registry struct {
	config Config
	root   suite.Node
	leaves int
}

// NewRegistry loads every manifest and builds the combined tree. Manifest
// problems are configuration errors: they fail here, before anything runs.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("leaf runner is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{config: cfg}

	trees := make([]suite.Node, 0, len(cfg.Paths))
	for _, path := range cfg.Paths {
		tree, err := r.loadManifest(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest %q: %w", path, err)
		}
		trees = append(trees, tree)
	}
	r.root = suite.Concat(trees...)

	cfg.Log.Debug("Registry loaded", "manifests", len(cfg.Paths), "leaves", r.leaves)
	return r, nil
}

// SuiteTree returns the combined, immutable suite tree. With no manifests the
// tree is empty and a run trivially passes.
func (r *Registry) SuiteTree() suite.Node {
	return r.root
}

// Leaves returns the number of declared leaves across all manifests.
func (r *Registry) Leaves() int {
	return r.leaves
}

func (r *Registry) loadManifest(path string) (suite.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Groups) == 0 {
		return nil, fmt.Errorf("manifest declares no groups")
	}

	children := make([]suite.Node, 0, len(m.Groups))
	for i := range m.Groups {
		node, err := r.buildGroup(&m.Groups[i])
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return suite.Concat(children...), nil
}

func (r *Registry) buildGroup(g *Group) (suite.Node, error) {
	if g.Label == "" {
		return nil, fmt.Errorf("group label is required")
	}
	if len(g.Tests) == 0 && len(g.Groups) == 0 {
		return nil, fmt.Errorf("group %q declares no tests or subgroups", g.Label)
	}

	children := make([]suite.Node, 0, len(g.Tests)+len(g.Groups))
	for i := range g.Tests {
		nodes, err := r.buildEntry(&g.Tests[i])
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Label, err)
		}
		children = append(children, nodes...)
	}
	for i := range g.Groups {
		node, err := r.buildGroup(&g.Groups[i])
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return suite.Describe(g.Label, children...), nil
}

func (r *Registry) buildEntry(e *Entry) ([]suite.Node, error) {
	if e.Package == "" {
		return nil, fmt.Errorf("entry package is required")
	}
	if e.RunAll && e.Name != "" {
		return nil, fmt.Errorf("entry %q sets both name and run_all", e.Name)
	}

	if e.RunAll {
		names, err := testlist.Discover(e.Package, r.config.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand package %q: %w", e.Package, err)
		}
		nodes := make([]suite.Node, 0, len(names))
		for _, name := range names {
			nodes = append(nodes, r.leaf(e.Package, name, name))
		}
		return nodes, nil
	}

	if e.Name != "" {
		return []suite.Node{r.leaf(e.Package, e.Name, e.Name)}, nil
	}

	// A bare package runs as one unit.
	return []suite.Node{r.leaf(e.Package, "", packageDisplayName(e.Package))}, nil
}

func (r *Registry) leaf(pkg, name, label string) suite.Node {
	runner := r.config.Runner
	r.leaves++
	return suite.Test(label, func() []suite.Outcome {
		return runner.RunTest(pkg, name)
	})
}

// packageDisplayName shortens a package path for display.
func packageDisplayName(pkg string) string {
	parts := strings.Split(filepath.ToSlash(pkg), "/")
	return parts[len(parts)-1] + " (package)"
}
