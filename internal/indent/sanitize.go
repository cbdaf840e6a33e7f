package indent

// sanitize strips string-literal contents and trailing `;` comments from one
// physical line so keywords inside them are never mistaken for structure.
//
// Quote handling is a plain toggle per quote kind: an unterminated string
// swallows the rest of the line, which is exactly the degradation we want.
// The quote characters themselves stay in the output so a later pass can
// still see that the line carried a string.
func sanitize(raw string) string {
	var (
		out      = make([]byte, 0, len(raw))
		inString bool
		quote    byte
	)
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if inString {
			if b == quote {
				inString = false
				out = append(out, b)
			}
			// string contents are dropped
			continue
		}
		switch b {
		case '"', '\'':
			inString = true
			quote = b
			out = append(out, b)
		case ';':
			// comment runs to end of line
			return string(out)
		default:
			out = append(out, b)
		}
	}
	return string(out)
}
