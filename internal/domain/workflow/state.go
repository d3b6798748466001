package workflow

// State represents the status of a document workflow instance
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateRejected  State = "rejected"
)

var validStates = map[State]bool{
	StatePending:   true,
	StateCompleted: true,
	StateRejected:  true,
}

var terminalStates = map[State]bool{
	StateCompleted: true,
	StateRejected:  true,
}

// IsTerminal returns true if the instance can no longer progress
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known instance status
func (s State) IsValid() bool {
	return validStates[s]
}
