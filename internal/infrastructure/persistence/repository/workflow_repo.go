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

const workflowColumns = `id, name, target_collection, is_active, created_at, updated_at`

// WorkflowRepository implements port.WorkflowRepository
type WorkflowRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *sqlx.DB, logger *zap.Logger) *WorkflowRepository {
	return &WorkflowRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a workflow; a taken name yields port.ErrDuplicate
func (r *WorkflowRepository) Create(ctx context.Context, wf *entity.Workflow) error {
	now := time.Now().UTC()
	wf.CreatedAt, wf.UpdatedAt = now, now

	query := `
		INSERT INTO workflows (` + workflowColumns + `)
		VALUES (:id, :name, :target_collection, :is_active, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, wf); err != nil {
		r.logger.Error("Failed to create workflow", zap.String("name", wf.Name), zap.Error(err))
		return fmt.Errorf("failed to create workflow: %w", sqlite.TranslateError(err))
	}
	return nil
}

// GetByID retrieves a workflow by ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*entity.Workflow, error) {
	return r.getOne(ctx, "id", id)
}

// GetByName retrieves a workflow by its unique name
func (r *WorkflowRepository) GetByName(ctx context.Context, name string) (*entity.Workflow, error) {
	return r.getOne(ctx, "name", name)
}

func (r *WorkflowRepository) getOne(ctx context.Context, column, value string) (*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE ` + column + ` = ?`

	var wf entity.Workflow
	err := sqlx.GetContext(ctx, sqlite.Executor(ctx, r.db), &wf, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return &wf, nil
}

// List returns all workflows by name
func (r *WorkflowRepository) List(ctx context.Context) ([]*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY name`

	workflows := []*entity.Workflow{}
	if err := sqlx.SelectContext(ctx, sqlite.Executor(ctx, r.db), &workflows, query); err != nil {
		r.logger.Error("Failed to list workflows", zap.Error(err))
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

var _ port.WorkflowRepository = (*WorkflowRepository)(nil)
