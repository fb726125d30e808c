package generator

// State is a step of one generation run.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateQuerying
	StateAborted
	StateGrouped
	StateRendering
	StateEmitting
	StateClosed
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateQuerying:
		return "querying"
	case StateAborted:
		return "aborted"
	case StateGrouped:
		return "grouped"
	case StateRendering:
		return "rendering"
	case StateEmitting:
		return "emitting"
	case StateClosed:
		return "closed"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateAborted || s == StateCompleted
}
