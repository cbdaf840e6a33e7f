package indent

// lineKind is the structural classification of one sanitized line.
type lineKind uint8

const (
	kindPlain lineKind = iota
	kindBlockOpener
	kindBlockCloser
	kindTransfer
	kindBranchOpener
	kindBranchCloser
	kindCaseLabel
)

// classify decides what a sanitized, trimmed line is, by its leading keyword.
// Precedence is fixed: branch closer, branch opener, case label, block
// closer, transfer, block opener, plain. Matching is case-insensitive and
// word-anchored, never substring, so `EndIfHandler()` stays a statement.
func classify(trimmed string) lineKind {
	word := firstWord(trimmed)
	if word == "" {
		return kindPlain
	}
	info, ok := lookupKeyword(word)
	if !ok {
		return kindPlain
	}
	switch info.cat {
	case catBranchCloser:
		return kindBranchCloser
	case catBranchOpener:
		return kindBranchOpener
	case catCaseLabel:
		return kindCaseLabel
	case catCloser:
		return kindBlockCloser
	case catTransfer:
		return kindTransfer
	case catOpener:
		return kindBlockOpener
	}
	return kindPlain
}

// netZero reports whether the line holds a matched opener/closer pair of the
// same block family, e.g. `If a : b() : EndIf` or `Select x : Case 1 :
// EndSelect` on one physical line. Such lines must not disturb the running
// nesting state at all.
func netZero(sanitized string) bool {
	var (
		open    [famCompilerSelect + 1]bool
		matched bool
	)
	words(sanitized, func(word string) {
		if matched {
			return
		}
		info, ok := lookupKeyword(word)
		if !ok {
			return
		}
		switch info.cat {
		case catOpener, catBranchOpener:
			open[info.fam] = true
		case catCloser, catBranchCloser:
			if open[info.fam] {
				matched = true
			}
		}
	})
	return matched
}
