package entity

import "time"

// Workflow is an approval template for documents of one collection
type Workflow struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	TargetCollection string    `json:"targetCollection" db:"target_collection"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// WorkflowStep is one ordered stage of a workflow.
// Conditions is an optional predicate over document fields, e.g. "amount > 10000".
type WorkflowStep struct {
	ID         string    `json:"id" db:"id"`
	WorkflowID string    `json:"workflowId" db:"workflow_id"`
	StepName   string    `json:"stepName" db:"step_name"`
	Order      int       `json:"order" db:"step_order"`
	Conditions string    `json:"conditions,omitempty" db:"conditions"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
