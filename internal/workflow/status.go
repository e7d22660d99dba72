package workflow

// Status is the orchestrator's single workflow state.
type Status int

const (
	Idle Status = iota
	EnhancingPrompt
	Generating
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case EnhancingPrompt:
		return "ENHANCING"
	case Generating:
		return "GENERATING"
	case Success:
		return "SUCCESS"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status as its wire name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Busy reports whether a remote call owned by the orchestrator is in flight.
func (s Status) Busy() bool {
	return s == EnhancingPrompt || s == Generating
}
