package indent

import "strings"

// RangeEdit is a whole-line replacement produced by FormatRange. StartLine
// and EndLine are zero-based and inclusive; Text carries the replacement for
// exactly that span, without a trailing newline.
type RangeEdit struct {
	StartLine int
	EndLine   int
	Text      string
}

// FormatDocument reindents the whole text in one pass. The second result is
// false when the output is byte-identical to the input, so callers can turn
// that into an empty edit set.
func FormatDocument(text string, opt Options) (string, bool) {
	if text == "" {
		return text, false
	}
	opt = opt.withDefaults()

	lines, trailingNewline := splitLines(text)
	out := make([]string, 0, len(lines))
	var st State
	for _, line := range lines {
		var level int
		var blank bool
		st, level, blank = Transition(st, line)
		out = append(out, renderLine(line, level, blank, opt))
	}

	result := strings.Join(out, "\n")
	if trailingNewline {
		result += "\n"
	}
	return result, result != text
}

// FormatRange reindents only the given zero-based inclusive line range. The
// range is expanded to whole lines; the state at its start is reconstructed
// from everything before it, so the result matches what FormatDocument would
// have produced for the same span.
func FormatRange(text string, startLine, endLine int, opt Options) (RangeEdit, bool) {
	opt = opt.withDefaults()

	lines, _ := splitLines(text)
	if len(lines) == 0 {
		return RangeEdit{}, false
	}
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}
	if startLine > endLine {
		return RangeEdit{}, false
	}

	st := Reconstruct(lines[:startLine])
	out := make([]string, 0, endLine-startLine+1)
	for _, line := range lines[startLine : endLine+1] {
		var level int
		var blank bool
		st, level, blank = Transition(st, line)
		out = append(out, renderLine(line, level, blank, opt))
	}

	replacement := strings.Join(out, "\n")
	original := strings.Join(lines[startLine:endLine+1], "\n")
	if replacement == original {
		return RangeEdit{}, false
	}
	return RangeEdit{StartLine: startLine, EndLine: endLine, Text: replacement}, true
}

// renderLine re-emits one line at the given level. Only leading whitespace
// changes; a trailing carriage return from CRLF input stays where it was.
func renderLine(raw string, level int, blank bool, opt Options) string {
	body, hadCR := strings.CutSuffix(raw, "\r")
	var out string
	if !blank {
		out = indentString(level, opt) + strings.TrimLeft(body, " \t")
	}
	if hadCR {
		out += "\r"
	}
	return out
}

// splitLines splits on '\n' and reports whether the text ended with one, so
// the join can restore it exactly.
func splitLines(text string) ([]string, bool) {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" && strings.HasSuffix(text, "\n") {
		return lines[:n-1], true
	}
	return lines, false
}
