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

const blogColumns = `id, title, content, status, amount, created_at, updated_at`

// BlogRepository implements port.BlogRepository
type BlogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *sqlx.DB, logger *zap.Logger) *BlogRepository {
	return &BlogRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a blog post
func (r *BlogRepository) Create(ctx context.Context, post *entity.BlogPost) error {
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now

	query := `
		INSERT INTO blog_posts (` + blogColumns + `)
		VALUES (:id, :title, :content, :status, :amount, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, sqlite.Executor(ctx, r.db), query, post); err != nil {
		r.logger.Error("Failed to create blog post", zap.Error(err))
		return fmt.Errorf("failed to create blog post: %w", sqlite.TranslateError(err))
	}
	return nil
}

// GetByID retrieves a blog post by ID
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE id = ?`

	var post entity.BlogPost
	err := sqlx.GetContext(ctx, sqlite.Executor(ctx, r.db), &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get blog post", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return &post, nil
}

// List returns posts newest first
func (r *BlogRepository) List(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`

	posts := []*entity.BlogPost{}
	if err := sqlx.SelectContext(ctx, sqlite.Executor(ctx, r.db), &posts, query, limit, offset); err != nil {
		r.logger.Error("Failed to list blog posts", zap.Error(err))
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

var _ port.BlogRepository = (*BlogRepository)(nil)
