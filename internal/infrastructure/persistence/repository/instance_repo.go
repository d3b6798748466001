package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/infrastructure/persistence/sqlite"
)

const instanceColumns = `id, document_id, collection, workflow_id, current_step, status, created_at, updated_at`

// DocumentWorkflowRepository implements port.DocumentWorkflowRepository
type DocumentWorkflowRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewDocumentWorkflowRepository creates a new document workflow repository
func NewDocumentWorkflowRepository(db *sqlx.DB, logger *zap.Logger) *DocumentWorkflowRepository {
	return &DocumentWorkflowRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an instance. The (document_id, collection, workflow_id) unique index
// turns a second trigger into port.ErrDuplicate.
func (r *DocumentWorkflowRepository) Create(ctx context.Context, instance *entity.DocumentWorkflow) error {
	now := time.Now().UTC()
	instance.CreatedAt, instance.UpdatedAt = now, now
	if instance.Status == "" {
		instance.Status = entity.StatusPending
	}

	query := `
		INSERT INTO document_workflows (` + instanceColumns + `)
		VALUES (:id, :document_id, :collection, :workflow_id, :current_step, :status, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, instance); err != nil {
		err = sqlite.TranslateError(err)
		if !errors.Is(err, port.ErrDuplicate) {
			r.logger.Error("Failed to create document workflow",
				zap.String("document_id", instance.DocumentID),
				zap.Error(err))
		}
		return fmt.Errorf("failed to create document workflow: %w", err)
	}
	return nil
}

// GetByID retrieves an instance by ID
func (r *DocumentWorkflowRepository) GetByID(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
	query := `SELECT ` + instanceColumns + ` FROM document_workflows WHERE id = ?`

	var instance entity.DocumentWorkflow
	err := sqlx.GetContext(ctx, sqlite.Executor(ctx, r.db), &instance, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document workflow", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document workflow: %w", err)
	}
	return &instance, nil
}

// Find returns instances matching every non-empty filter field, newest first
func (r *DocumentWorkflowRepository) Find(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.DocumentID != "" {
		conds = append(conds, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if filter.Collection != "" {
		conds = append(conds, "collection = ?")
		args = append(args, filter.Collection)
	}
	if filter.WorkflowID != "" {
		conds = append(conds, "workflow_id = ?")
		args = append(args, filter.WorkflowID)
	}

	query := `SELECT ` + instanceColumns + ` FROM document_workflows`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	instances := []*entity.DocumentWorkflow{}
	if err := sqlx.SelectContext(ctx, sqlite.Executor(ctx, r.db), &instances, query, args...); err != nil {
		r.logger.Error("Failed to find document workflows", zap.String("document_id", filter.DocumentID), zap.Error(err))
		return nil, fmt.Errorf("failed to find document workflows: %w", err)
	}
	return instances, nil
}

// Update persists current step and status
func (r *DocumentWorkflowRepository) Update(ctx context.Context, instance *entity.DocumentWorkflow) error {
	instance.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE document_workflows
		SET current_step = :current_step, status = :status, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, instance)
	if err != nil {
		r.logger.Error("Failed to update document workflow", zap.String("id", instance.ID), zap.Error(err))
		return fmt.Errorf("failed to update document workflow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: document workflow %s", port.ErrNotFound, instance.ID)
	}
	return nil
}

var _ port.DocumentWorkflowRepository = (*DocumentWorkflowRepository)(nil)
