package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/garyjia/doc-workflow/internal/application/port"
	appwf "github.com/garyjia/doc-workflow/internal/application/workflow"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/domain/event"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

// AppendLogInput is an approve, reject or comment action on a document workflow.
// DocumentWorkflowID may be omitted; the newest instance for DocumentID and Collection is used.
type AppendLogInput struct {
	DocumentWorkflowID string `json:"documentWorkflowId"`
	DocumentID         string `json:"documentId"`
	Collection         string `json:"collection"`
	StepID             string `json:"stepId"`
	Action             string `json:"action"`
	UserID             string `json:"userId"`
	Comment            string `json:"comment"`
}

// AppendLogResult carries the stored entry and what the advance policy did
type AppendLogResult struct {
	Log      *entity.WorkflowLog      `json:"log"`
	Instance *entity.DocumentWorkflow `json:"documentWorkflow"`
	Outcome  appwf.Outcome            `json:"outcome,omitempty"`
}

// LogService appends and reads workflow log entries
type LogService interface {
	Append(ctx context.Context, in AppendLogInput) (*AppendLogResult, error)
	List(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error)
}

type logServiceImpl struct {
	logRepo      port.WorkflowLogRepository
	instanceRepo port.DocumentWorkflowRepository
	documents    port.DocumentSource
	policy       appwf.AdvancePolicy
	events       EventEmitter
	logger       Logger
}

// NewLogService creates a new LogService
func NewLogService(
	logRepo port.WorkflowLogRepository,
	instanceRepo port.DocumentWorkflowRepository,
	documents port.DocumentSource,
	policy appwf.AdvancePolicy,
	events EventEmitter,
	logger Logger,
) LogService {
	return &logServiceImpl{
		logRepo:      logRepo,
		instanceRepo: instanceRepo,
		documents:    documents,
		policy:       policy,
		events:       events,
		logger:       logger,
	}
}

// Append stores the entry, then hands it to the advance policy
func (s *logServiceImpl) Append(ctx context.Context, in AppendLogInput) (*AppendLogResult, error) {
	if !entity.IsValidAction(in.Action) {
		return nil, fmt.Errorf("%w: action must be one of approved, rejected, commented", port.ErrValidation)
	}

	instance, err := s.resolveInstance(ctx, in)
	if err != nil {
		return nil, err
	}

	entry := &entity.WorkflowLog{
		ID:                 uuid.NewString(),
		DocumentWorkflowID: instance.ID,
		DocumentID:         instance.DocumentID,
		Collection:         instance.Collection,
		StepID:             in.StepID,
		Action:             in.Action,
		UserID:             in.UserID,
		Comment:            utils.SanitizeString(in.Comment),
	}
	if entry.StepID == "" {
		entry.StepID = defaultStepID(instance.CurrentStep)
	}
	if entry.Comment == "" {
		entry.Comment = defaultComment(entry.Action)
	}
	if entry.UserID == "" {
		entry.UserID = entity.SystemUserID
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append workflow log", "error", err, "document_id", entry.DocumentID)
		return nil, fmt.Errorf("append log: %w", err)
	}

	s.events.emit(ctx, event.NewEvent(event.TypeLogAppended, entry.DocumentID, instance.ID,
		fmt.Sprintf("%s %s document %s", entry.UserID, entry.Action, entry.DocumentID),
		map[string]interface{}{"action": entry.Action, "userId": entry.UserID, "stepId": entry.StepID}))

	result := &AppendLogResult{Log: entry, Instance: instance}

	doc, err := s.loadDocument(ctx, instance)
	if err != nil {
		return nil, err
	}
	applied, err := s.policy.Apply(ctx, instance, entry, doc)
	if err != nil {
		s.logger.Error("Advance policy failed", "error", err, "policy", s.policy.Mode(), "instance_id", instance.ID)
		return nil, fmt.Errorf("apply %s policy: %w", s.policy.Mode(), err)
	}
	if applied != nil {
		result.Outcome = applied.Outcome
		if applied.Instance != nil {
			result.Instance = applied.Instance
		}
	}

	s.logger.Info("Workflow log appended",
		"log_id", entry.ID,
		"instance_id", instance.ID,
		"action", entry.Action,
		"user_id", entry.UserID,
		"outcome", string(result.Outcome),
	)
	return result, nil
}

func (s *logServiceImpl) List(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error) {
	if filter.DocumentID == "" && filter.DocumentWorkflowID == "" {
		return nil, fmt.Errorf("%w: documentId is required", port.ErrValidation)
	}
	return s.logRepo.List(ctx, filter)
}

func (s *logServiceImpl) resolveInstance(ctx context.Context, in AppendLogInput) (*entity.DocumentWorkflow, error) {
	if in.DocumentWorkflowID != "" {
		inst, err := s.instanceRepo.GetByID(ctx, in.DocumentWorkflowID)
		if err != nil {
			return nil, fmt.Errorf("get instance: %w", err)
		}
		if inst == nil {
			return nil, fmt.Errorf("%w: document workflow %s", port.ErrNotFound, in.DocumentWorkflowID)
		}
		if in.DocumentID != "" && in.DocumentID != inst.DocumentID {
			return nil, fmt.Errorf("%w: documentId does not match document workflow", port.ErrValidation)
		}
		return inst, nil
	}

	if err := utils.RequireFields(
		utils.Field{Name: "documentId", Value: in.DocumentID},
		utils.Field{Name: "collection", Value: in.Collection},
	); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrValidation, err)
	}

	instances, err := s.instanceRepo.Find(ctx, port.InstanceFilter{DocumentID: in.DocumentID, Collection: in.Collection})
	if err != nil {
		return nil, fmt.Errorf("find instance: %w", err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: no workflow for document %s", port.ErrNotFound, in.DocumentID)
	}
	return instances[0], nil
}

// defaultStepID records step 0 as "1", the reviewer widget's convention
func defaultStepID(currentStep int) string {
	if currentStep == 0 {
		return "1"
	}
	return strconv.Itoa(currentStep)
}

func defaultComment(action string) string {
	switch action {
	case entity.ActionApproved:
		return "Approved"
	case entity.ActionRejected:
		return "Rejected"
	default:
		return ""
	}
}

// loadDocument is skipped for log_only since that policy never reads the document
func (s *logServiceImpl) loadDocument(ctx context.Context, instance *entity.DocumentWorkflow) (entity.Document, error) {
	if s.documents == nil || s.policy.Mode() == appwf.AdvanceModeLogOnly {
		return entity.Document{}, nil
	}
	doc, err := s.documents.Load(ctx, instance.Collection, instance.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		doc = entity.Document{}
	}
	return doc, nil
}
