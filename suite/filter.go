package suite

import (
	"fmt"
	"regexp"
	"strings"
)

// Spec is one filtering step: keep leaves whose full label path matches
// Pattern (Include true), or drop those that match it (Include false).
type Spec struct {
	Include bool
	Pattern string
}

type step struct {
	include bool
	re      *regexp.Regexp
}

// Pipeline is an ordered sequence of compiled filter steps. Order is
// significant: each step narrows the output of the previous one.
type Pipeline struct {
	steps []step
}

// NewPipeline compiles specs in caller order. A malformed pattern is a
// configuration error and surfaces here, before any traversal.
func NewPipeline(specs []Spec) (*Pipeline, error) {
	steps := make([]step, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", s.Pattern, err)
		}
		steps = append(steps, step{include: s.Include, re: re})
	}
	return &Pipeline{steps: steps}, nil
}

// Apply narrows the tree one step at a time, left to right. An empty
// pipeline is the identity transform. Branches left without leaves are
// dropped; a tree with no survivors collapses to an empty Batch.
func (p *Pipeline) Apply(root Node) Node {
	for _, s := range p.steps {
		pruned := prune(root, nil, s)
		if pruned == nil {
			pruned = Batch{}
		}
		root = pruned
	}
	return root
}

// prune restricts a subtree to the leaves surviving one step, or returns nil
// when nothing survives.
func prune(n Node, labels []string, s step) Node {
	switch t := n.(type) {
	case Leaf:
		if s.re.MatchString(strings.Join(labels, " ")) == s.include {
			return t
		}
		return nil
	case Labeled:
		child := prune(t.Child, append(labels, t.Label), s)
		if child == nil {
			return nil
		}
		return Labeled{Label: t.Label, Child: child}
	case Batch:
		kept := make([]Node, 0, len(t.Children))
		for _, c := range t.Children {
			if pc := prune(c, labels, s); pc != nil {
				kept = append(kept, pc)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		return Batch{Children: kept}
	default:
		return nil
	}
}
