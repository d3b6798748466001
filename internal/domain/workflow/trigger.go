package workflow

// Trigger represents an event that can cause a status transition
type Trigger string

const (
	// TriggerAdvance moves currentStep forward; the status stays pending
	TriggerAdvance  Trigger = "ADVANCE"
	TriggerComplete Trigger = "COMPLETE"
	TriggerReject   Trigger = "REJECT"
	// TriggerReopen is an administrative override back to pending
	TriggerReopen Trigger = "REOPEN"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
