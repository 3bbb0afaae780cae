// Package ui holds the box-drawing helpers shared by console output.
package ui

import "strings"

// Tree hierarchy symbols.
const (
	TreeBranch     = "├── " // branch connector
	TreeLastBranch = "└── " // last branch connector
	TreeContinue   = "│   " // parent has more siblings
	TreeIndent     = "    " // parent was last
)

// Prefix builds a tree prefix for an entry at the given depth. parentIsLast
// records, outermost first, whether each ancestor was the last of its
// siblings.
func Prefix(isLast bool, parentIsLast []bool) string {
	var b strings.Builder
	for _, last := range parentIsLast {
		if last {
			b.WriteString(TreeIndent)
		} else {
			b.WriteString(TreeContinue)
		}
	}
	if isLast {
		b.WriteString(TreeLastBranch)
	} else {
		b.WriteString(TreeBranch)
	}
	return b.String()
}
