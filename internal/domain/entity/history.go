package entity

import "time"

// WorkflowLog is an immutable audit record of an action taken against a document's workflow.
// DocumentWorkflowID links the entry to its instance; DocumentID and Collection are kept
// for lookups by document.
type WorkflowLog struct {
	ID                 string    `json:"id" db:"id"`
	DocumentWorkflowID string    `json:"documentWorkflowId" db:"document_workflow_id"`
	DocumentID         string    `json:"documentId" db:"document_id"`
	Collection         string    `json:"collection" db:"collection"`
	StepID             string    `json:"stepId" db:"step_id"`
	Action             string    `json:"action" db:"action"`
	UserID             string    `json:"userId" db:"user_id"`
	Comment            string    `json:"comment,omitempty" db:"comment"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}
