package driver

// Status is the terminal state of one file in a formatting run.
type Status uint8

const (
	StatusQueued Status = iota
	StatusUnchanged
	StatusReformatted
	StatusError
)

// Event reports one file finishing during FormatPaths. Consumed by the
// progress UI.
type Event struct {
	Path   string
	Status Status
}

func emitEvent(ch chan<- Event, res FormatResult) {
	if ch == nil {
		return
	}
	ev := Event{Path: res.Path, Status: StatusUnchanged}
	switch {
	case res.Err != nil:
		ev.Status = StatusError
	case res.Changed:
		ev.Status = StatusReformatted
	}
	ch <- ev
}

// Label renders a status for display.
func (s Status) Label() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusUnchanged:
		return "ok"
	case StatusReformatted:
		return "reformatted"
	case StatusError:
		return "error"
	}
	return ""
}
