package indent

import "strings"

// indentString renders a nesting level as literal leading whitespace.
// Tabs are one unit each; TabSize only matters for spaces.
func indentString(level int, opt Options) string {
	if level <= 0 {
		return ""
	}
	if !opt.InsertSpaces {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*opt.TabSize)
}
