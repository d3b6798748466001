package workflow

import (
	"context"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

// Outcome describes what a processing pass did to an instance
type Outcome string

const (
	OutcomeNoInstance        Outcome = "no_instance"
	OutcomeAlreadyFinal      Outcome = "already_final"
	OutcomeCompleted         Outcome = "completed"
	OutcomeApprovalRequested Outcome = "approval_requested"
	OutcomeConditionNotMet   Outcome = "condition_not_met"
	OutcomeRejected          Outcome = "rejected"
)

// Result is returned by a processing pass
type Result struct {
	Outcome  Outcome
	Instance *entity.DocumentWorkflow
	// NextStep is the step that was evaluated, nil when the workflow completed
	NextStep *entity.WorkflowStep
	Message  string
}

// TransitionEngine advances document workflow instances
type TransitionEngine interface {
	// ProcessWorkflow processes the first instance found for documentID.
	// A document without an instance yields OutcomeNoInstance and no error.
	ProcessWorkflow(ctx context.Context, documentID string, doc entity.Document) (*Result, error)

	// ProcessInstance processes an instance that has already been loaded
	ProcessInstance(ctx context.Context, instance *entity.DocumentWorkflow, doc entity.Document) (*Result, error)

	// Fire applies a status trigger to the instance and persists the result.
	// TriggerAdvance also increments CurrentStep.
	Fire(ctx context.Context, instance *entity.DocumentWorkflow, trigger domainwf.Trigger) error
}
