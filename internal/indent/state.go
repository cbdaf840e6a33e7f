package indent

import "strings"

// State is the running nesting state of the formatter. The zero value is the
// state at the top of any document. It is a plain value: both the document
// driver and the range reconstructor thread it through Transition and never
// share it.
type State struct {
	// Level is the current nesting depth in indent units, never negative.
	Level int
	// InBranch is set while inside a Select-style construct.
	InBranch bool
	// BranchBase is the level recorded when the branch construct was entered;
	// its closer and case labels render relative to this anchor.
	BranchBase int
	// CaseSeen is set once a case label has been emitted in the current
	// branch construct.
	CaseSeen bool
}

// Transition consumes one raw physical line and returns the successor state
// plus the level the line renders at. blank marks lines with no content at
// all; they render empty regardless of level.
//
// Malformed input never fails: an unmatched closer dedents and clamps at
// zero, a case label outside a branch construct is an ordinary statement.
func Transition(st State, raw string) (next State, emitLevel int, blank bool) {
	next = st

	if strings.TrimSpace(raw) == "" {
		return next, 0, true
	}

	sanitized := sanitize(raw)
	trimmed := strings.TrimSpace(sanitized)
	if trimmed == "" {
		// comment-only line: keep it at the current level, state untouched
		return next, st.Level, false
	}

	// A matched opener/closer pair on one line suppresses every other rule.
	if netZero(sanitized) {
		return next, st.Level, false
	}

	kind := classify(trimmed)
	switch kind {
	case kindBranchCloser:
		if st.InBranch {
			emitLevel = st.BranchBase
			next.Level = st.BranchBase
			next.InBranch = false
			next.CaseSeen = false
		} else {
			emitLevel = maxZero(st.Level - 1)
			next.Level = emitLevel
		}

	case kindBranchOpener:
		emitLevel = st.Level
		next.BranchBase = st.Level
		next.InBranch = true
		next.CaseSeen = false
		// content before the first case label sits inside the construct
		next.Level = next.BranchBase + 1

	case kindCaseLabel:
		if st.InBranch {
			emitLevel = st.BranchBase + 1
			next.CaseSeen = true
			// one level for the construct, one for the selected case
			next.Level = st.BranchBase + 2
		} else {
			emitLevel = st.Level
		}

	case kindBlockCloser:
		emitLevel = maxZero(st.Level - 1)
		next.Level = emitLevel

	case kindTransfer:
		// the keyword aligns with its opener, following lines resume deeper
		emitLevel = maxZero(st.Level - 1)
		next.Level = emitLevel + 1

	case kindBlockOpener:
		emitLevel = st.Level
		next.Level = st.Level + 1

	default:
		emitLevel = st.Level
	}

	// Statements between a branch opener and its first case label must not
	// sink below the construct body level.
	if next.InBranch && !next.CaseSeen {
		switch kind {
		case kindBranchCloser, kindBranchOpener, kindCaseLabel:
		default:
			if next.Level < next.BranchBase+1 {
				next.Level = next.BranchBase + 1
			}
		}
	}

	return next, emitLevel, false
}

// Reconstruct replays Transition over the lines preceding a range and keeps
// only the final state. It is the same code path as document formatting, so
// the two can never drift apart.
func Reconstruct(lines []string) State {
	var st State
	for _, line := range lines {
		st, _, _ = Transition(st, line)
	}
	return st
}

func maxZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
