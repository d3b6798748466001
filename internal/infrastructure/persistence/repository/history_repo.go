package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/infrastructure/persistence/sqlite"
)

const logColumns = `id, document_workflow_id, document_id, collection, step_id, action, user_id, comment, created_at`

// WorkflowLogRepository implements port.WorkflowLogRepository.
// Entries are append-only; the schema rejects updates and deletes.
type WorkflowLogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWorkflowLogRepository creates a new workflow log repository
func NewWorkflowLogRepository(db *sqlx.DB, logger *zap.Logger) *WorkflowLogRepository {
	return &WorkflowLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a log entry
func (r *WorkflowLogRepository) Create(ctx context.Context, entry *entity.WorkflowLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.UserID == "" {
		entry.UserID = entity.SystemUserID
	}

	query := `
		INSERT INTO workflow_logs (` + logColumns + `)
		VALUES (:id, :document_workflow_id, :document_id, :collection, :step_id, :action, :user_id, :comment, :created_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, entry); err != nil {
		r.logger.Error("Failed to create workflow log",
			zap.String("document_id", entry.DocumentID),
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("failed to create workflow log: %w", err)
	}
	return nil
}

// List returns entries for a document or instance, oldest first unless NewestFirst is set
func (r *WorkflowLogRepository) List(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.DocumentID != "" {
		conds = append(conds, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if filter.DocumentWorkflowID != "" {
		conds = append(conds, "document_workflow_id = ?")
		args = append(args, filter.DocumentWorkflowID)
	}

	query := `SELECT ` + logColumns + ` FROM workflow_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	if filter.NewestFirst {
		query += ` ORDER BY created_at DESC, rowid DESC`
	} else {
		query += ` ORDER BY created_at ASC, rowid ASC`
	}

	entries := []*entity.WorkflowLog{}
	if err := sqlx.SelectContext(ctx, sqlite.Executor(ctx, r.db), &entries, query, args...); err != nil {
		r.logger.Error("Failed to list workflow logs", zap.String("document_id", filter.DocumentID), zap.Error(err))
		return nil, fmt.Errorf("failed to list workflow logs: %w", err)
	}
	return entries, nil
}

var _ port.WorkflowLogRepository = (*WorkflowLogRepository)(nil)
