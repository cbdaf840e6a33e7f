package indent

// Options controls how indentation is rendered.
type Options struct {
	// TabSize is the number of spaces per indent unit when InsertSpaces is set.
	TabSize int
	// InsertSpaces selects spaces over tabs. One tab is always one unit.
	InsertSpaces bool
}

// DefaultOptions mirror the editor-protocol fallbacks.
func DefaultOptions() Options {
	return Options{TabSize: 4, InsertSpaces: true}
}

func (o Options) withDefaults() Options {
	if o.TabSize <= 0 {
		o.TabSize = 4
	}
	return o
}
