package event

// Type identifies the type of domain event
type Type string

const (
	TypeWorkflowTriggered Type = "workflow.triggered"
	TypeApprovalRequested Type = "workflow.approval_requested"
	TypeWorkflowCompleted Type = "workflow.completed"
	TypeWorkflowRejected  Type = "workflow.rejected"
	TypeStepAdvanced      Type = "workflow.step_advanced"
	TypeLogAppended       Type = "log.appended"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeWorkflowTriggered,
		TypeApprovalRequested,
		TypeWorkflowCompleted,
		TypeWorkflowRejected,
		TypeStepAdvanced,
		TypeLogAppended:
		return true
	default:
		return false
	}
}
