package workflow

import (
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

// instanceMachine is configured once; Build copies the table for every instance
var instanceMachine = newInstanceBuilder()

func newInstanceBuilder() domainwf.StateMachineBuilder {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StatePending).
		Permit(domainwf.TriggerAdvance, domainwf.StatePending).
		Permit(domainwf.TriggerComplete, domainwf.StateCompleted).
		Permit(domainwf.TriggerReject, domainwf.StateRejected)

	// terminal states only leave through an administrative reopen
	builder.Configure(domainwf.StateCompleted).
		Permit(domainwf.TriggerReopen, domainwf.StatePending)

	builder.Configure(domainwf.StateRejected).
		Permit(domainwf.TriggerReopen, domainwf.StatePending)

	return builder
}

// BuildInstanceStateMachine creates a state machine positioned at the instance status
func BuildInstanceStateMachine(initialState domainwf.State) domainwf.StateMachine {
	return instanceMachine.Build(initialState)
}

// TriggerForStatus returns the trigger that moves an instance from one status to another.
// ok is false when the statuses are equal.
func TriggerForStatus(from, to domainwf.State) (trigger domainwf.Trigger, ok bool) {
	if from == to {
		return "", false
	}
	switch to {
	case domainwf.StateCompleted:
		return domainwf.TriggerComplete, true
	case domainwf.StateRejected:
		return domainwf.TriggerReject, true
	default:
		return domainwf.TriggerReopen, true
	}
}
