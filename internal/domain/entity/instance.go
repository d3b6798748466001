package entity

import "time"

// DocumentWorkflow is the live progress record of one document through one workflow.
// CurrentStep is a 0-based index into the workflow's steps ordered by Order.
type DocumentWorkflow struct {
	ID          string    `json:"id" db:"id"`
	DocumentID  string    `json:"documentId" db:"document_id"`
	Collection  string    `json:"collection" db:"collection"`
	WorkflowID  string    `json:"workflowId" db:"workflow_id"`
	CurrentStep int       `json:"currentStep" db:"current_step"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsPending reports whether the instance can still progress
func (d *DocumentWorkflow) IsPending() bool {
	return d.Status == StatusPending
}
