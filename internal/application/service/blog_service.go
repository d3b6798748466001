package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/garyjia/doc-workflow/internal/application/port"
	appwf "github.com/garyjia/doc-workflow/internal/application/workflow"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

// DefaultAutoTriggerWorkflow is the workflow attached to new blog posts
const DefaultAutoTriggerWorkflow = "Blog Approval"

// CreateBlogInput is a new blog post
type CreateBlogInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Status  string   `json:"status"`
	Amount  *float64 `json:"amount"`
}

// BlogService manages blog posts and attaches the approval workflow on creation
type BlogService interface {
	// Create stores the post; workflow attachment is best effort and never fails the call
	Create(ctx context.Context, userID string, in CreateBlogInput) (*entity.BlogPost, error)
	Get(ctx context.Context, id string) (*entity.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error)
}

type blogServiceImpl struct {
	blogRepo     port.BlogRepository
	workflowRepo port.WorkflowRepository
	instanceRepo port.DocumentWorkflowRepository
	logRepo      port.WorkflowLogRepository
	txManager    port.TransactionManager
	engine       appwf.TransitionEngine
	workflowName string
	logger       Logger
}

// NewBlogService creates a new BlogService. An empty workflowName selects DefaultAutoTriggerWorkflow.
func NewBlogService(
	blogRepo port.BlogRepository,
	workflowRepo port.WorkflowRepository,
	instanceRepo port.DocumentWorkflowRepository,
	logRepo port.WorkflowLogRepository,
	txManager port.TransactionManager,
	engine appwf.TransitionEngine,
	workflowName string,
	logger Logger,
) BlogService {
	if workflowName == "" {
		workflowName = DefaultAutoTriggerWorkflow
	}
	return &blogServiceImpl{
		blogRepo:     blogRepo,
		workflowRepo: workflowRepo,
		instanceRepo: instanceRepo,
		logRepo:      logRepo,
		txManager:    txManager,
		engine:       engine,
		workflowName: workflowName,
		logger:       logger,
	}
}

func (s *blogServiceImpl) Create(ctx context.Context, userID string, in CreateBlogInput) (*entity.BlogPost, error) {
	if err := utils.RequireFields(
		utils.Field{Name: "title", Value: in.Title},
		utils.Field{Name: "content", Value: in.Content},
	); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrValidation, err)
	}
	status := in.Status
	if status == "" {
		status = entity.BlogStatusDraft
	}
	if !entity.IsValidBlogStatus(status) {
		return nil, fmt.Errorf("%w: status must be draft or published", port.ErrValidation)
	}
	if in.Amount != nil {
		if err := utils.ValidateAmount(*in.Amount); err != nil {
			return nil, fmt.Errorf("%w: %v", port.ErrValidation, err)
		}
	}

	post := &entity.BlogPost{
		ID:      uuid.NewString(),
		Title:   utils.SanitizeString(in.Title),
		Content: in.Content,
		Status:  status,
		Amount:  in.Amount,
	}
	if err := s.blogRepo.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create blog post", "error", err)
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	s.logger.Info("Blog post created", "post_id", post.ID, "status", post.Status)
	s.attachWorkflow(ctx, post, userID)
	return post, nil
}

// attachWorkflow starts the configured workflow for a new post. Failures are logged only.
func (s *blogServiceImpl) attachWorkflow(ctx context.Context, post *entity.BlogPost, userID string) {
	wf, err := s.workflowRepo.GetByName(ctx, s.workflowName)
	if err != nil {
		s.logger.Error("Failed to look up auto-trigger workflow", "error", err, "workflow", s.workflowName)
		return
	}
	if wf == nil {
		return
	}

	if userID == "" {
		userID = entity.SystemUserID
	}

	instance := newInstance(post.ID, entity.CollectionBlog, wf.ID)
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.instanceRepo.Create(txCtx, instance); err != nil {
			return fmt.Errorf("create instance: %w", err)
		}
		entry := &entity.WorkflowLog{
			ID:                 uuid.NewString(),
			DocumentWorkflowID: instance.ID,
			DocumentID:         post.ID,
			Collection:         entity.CollectionBlog,
			StepID:             "1",
			Action:             entity.ActionCommented,
			UserID:             userID,
			Comment:            "Workflow started",
		}
		if err := s.logRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("create start log: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to attach workflow", "error", err, "post_id", post.ID, "workflow_id", wf.ID)
		return
	}

	res, err := s.engine.ProcessWorkflow(ctx, post.ID, post.Document())
	if err != nil {
		s.logger.Error("Failed to process workflow", "error", err, "post_id", post.ID)
		return
	}

	s.logger.Info("Workflow attached to blog post",
		"post_id", post.ID,
		"instance_id", instance.ID,
		"outcome", string(res.Outcome),
	)
}

func (s *blogServiceImpl) Get(ctx context.Context, id string) (*entity.BlogPost, error) {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: blog post %s", port.ErrNotFound, id)
	}
	return post, nil
}

func (s *blogServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.blogRepo.List(ctx, limit, offset)
}
