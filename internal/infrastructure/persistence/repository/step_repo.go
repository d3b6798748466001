package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/infrastructure/persistence/sqlite"
)

const stepColumns = `id, workflow_id, step_name, step_order, conditions, created_at, updated_at`

// StepRepository implements port.StepRepository
type StepRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStepRepository creates a new step repository
func NewStepRepository(db *sqlx.DB, logger *zap.Logger) *StepRepository {
	return &StepRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a step; a reused order within the workflow yields port.ErrDuplicate
func (r *StepRepository) Create(ctx context.Context, step *entity.WorkflowStep) error {
	now := time.Now().UTC()
	step.CreatedAt, step.UpdatedAt = now, now

	query := `
		INSERT INTO workflow_steps (` + stepColumns + `)
		VALUES (:id, :workflow_id, :step_name, :step_order, :conditions, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, step); err != nil {
		r.logger.Error("Failed to create workflow step",
			zap.String("workflow_id", step.WorkflowID),
			zap.Int("order", step.Order),
			zap.Error(err))
		return fmt.Errorf("failed to create workflow step: %w", sqlite.TranslateError(err))
	}
	return nil
}

// GetByID retrieves a step by ID
func (r *StepRepository) GetByID(ctx context.Context, id string) (*entity.WorkflowStep, error) {
	query := `SELECT ` + stepColumns + ` FROM workflow_steps WHERE id = ?`

	var step entity.WorkflowStep
	err := sqlx.GetContext(ctx, sqlite.Executor(ctx, r.db), &step, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow step", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow step: %w", err)
	}
	return &step, nil
}

// ListByWorkflow returns the workflow's steps in ascending order
func (r *StepRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
	query := `SELECT ` + stepColumns + ` FROM workflow_steps WHERE workflow_id = ? ORDER BY step_order ASC`

	steps := []*entity.WorkflowStep{}
	if err := sqlx.SelectContext(ctx, sqlite.Executor(ctx, r.db), &steps, query, workflowID); err != nil {
		r.logger.Error("Failed to list workflow steps", zap.String("workflow_id", workflowID), zap.Error(err))
		return nil, fmt.Errorf("failed to list workflow steps: %w", err)
	}
	return steps, nil
}

var _ port.StepRepository = (*StepRepository)(nil)
