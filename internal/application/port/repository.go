package port

import (
	"context"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

// Lookups by ID return (nil, nil) when the record does not exist.

// WorkflowRepository defines persistence operations for workflow definitions
type WorkflowRepository interface {
	Create(ctx context.Context, wf *entity.Workflow) error
	GetByID(ctx context.Context, id string) (*entity.Workflow, error)
	GetByName(ctx context.Context, name string) (*entity.Workflow, error)
	List(ctx context.Context) ([]*entity.Workflow, error)
}

// StepRepository defines persistence operations for workflow steps
type StepRepository interface {
	Create(ctx context.Context, step *entity.WorkflowStep) error
	GetByID(ctx context.Context, id string) (*entity.WorkflowStep, error)
	// ListByWorkflow returns the steps of a workflow in ascending order
	ListByWorkflow(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error)
}

// InstanceFilter selects document workflows by equality; empty fields are ignored
type InstanceFilter struct {
	DocumentID string
	Collection string
	WorkflowID string
}

// DocumentWorkflowRepository defines persistence operations for workflow instances
type DocumentWorkflowRepository interface {
	// Create returns ErrDuplicate when the (document, collection, workflow) triple exists
	Create(ctx context.Context, instance *entity.DocumentWorkflow) error
	GetByID(ctx context.Context, id string) (*entity.DocumentWorkflow, error)
	// Find returns matching instances oldest first
	Find(ctx context.Context, filter InstanceFilter) ([]*entity.DocumentWorkflow, error)
	// Update persists CurrentStep and Status
	Update(ctx context.Context, instance *entity.DocumentWorkflow) error
}

// LogFilter selects workflow log entries
type LogFilter struct {
	DocumentID         string
	DocumentWorkflowID string
	NewestFirst        bool
}

// WorkflowLogRepository is append-only
type WorkflowLogRepository interface {
	Create(ctx context.Context, entry *entity.WorkflowLog) error
	List(ctx context.Context, filter LogFilter) ([]*entity.WorkflowLog, error)
}

// BlogRepository defines persistence operations for blog posts
type BlogRepository interface {
	Create(ctx context.Context, post *entity.BlogPost) error
	GetByID(ctx context.Context, id string) (*entity.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
