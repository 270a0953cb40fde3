package upload

// State is the phase of a submission.
type State int

const (
	// StateIdle means no submission is in progress.
	StateIdle State = iota
	// StateValidating means the selection is being checked.
	StateValidating
	// StateSending means the request is in flight.
	StateSending
	// StateSucceeded means the response was rendered.
	StateSucceeded
	// StateFailed means an error message was rendered.
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
