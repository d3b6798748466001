package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garyjia/doc-workflow/internal/application/port"
	appwf "github.com/garyjia/doc-workflow/internal/application/workflow"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/domain/event"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

// TriggerInput starts a workflow for a document
type TriggerInput struct {
	DocumentID string `json:"documentId"`
	Collection string `json:"collection"`
	WorkflowID string `json:"workflowId"`
}

// WorkflowStatus is one instance of a document joined with its definition
type WorkflowStatus struct {
	DocumentWorkflowID string                 `json:"documentWorkflowId"`
	WorkflowDetails    *entity.Workflow       `json:"workflowDetails"`
	Steps              []*entity.WorkflowStep `json:"steps"`
	CurrentStep        int                    `json:"currentStep"`
	Status             string                 `json:"status"`
}

// CreateWorkflowInput defines a new workflow
type CreateWorkflowInput struct {
	Name             string `json:"name" yaml:"name"`
	TargetCollection string `json:"targetCollection" yaml:"targetCollection"`
	IsActive         *bool  `json:"isActive" yaml:"isActive"`
}

// CreateStepInput defines a step of an existing workflow
type CreateStepInput struct {
	WorkflowID string `json:"workflowId"`
	StepName   string `json:"stepName"`
	Order      int    `json:"order"`
	Conditions string `json:"conditions"`
}

// OverrideInput is a manual correction of an instance; nil fields are left unchanged
type OverrideInput struct {
	Status      *string `json:"status"`
	CurrentStep *int    `json:"currentStep"`
}

// WorkflowService manages workflow definitions and document instances
type WorkflowService interface {
	Trigger(ctx context.Context, in TriggerInput) (*entity.DocumentWorkflow, error)
	Status(ctx context.Context, documentID string) ([]WorkflowStatus, error)

	CreateWorkflow(ctx context.Context, in CreateWorkflowInput) (*entity.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*entity.Workflow, error)
	ListWorkflows(ctx context.Context) ([]*entity.Workflow, error)
	CreateStep(ctx context.Context, in CreateStepInput) (*entity.WorkflowStep, error)
	ListSteps(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error)

	ListInstances(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error)
	GetInstance(ctx context.Context, id string) (*entity.DocumentWorkflow, error)
	Override(ctx context.Context, id string, in OverrideInput) (*entity.DocumentWorkflow, error)
}

type workflowServiceImpl struct {
	workflowRepo port.WorkflowRepository
	stepRepo     port.StepRepository
	instanceRepo port.DocumentWorkflowRepository
	engine       appwf.TransitionEngine
	events       EventEmitter
	logger       Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	workflowRepo port.WorkflowRepository,
	stepRepo port.StepRepository,
	instanceRepo port.DocumentWorkflowRepository,
	engine appwf.TransitionEngine,
	events EventEmitter,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		workflowRepo: workflowRepo,
		stepRepo:     stepRepo,
		instanceRepo: instanceRepo,
		engine:       engine,
		events:       events,
		logger:       logger,
	}
}

// Trigger creates a pending instance at step 0. Duplicates are rejected by the store.
func (s *workflowServiceImpl) Trigger(ctx context.Context, in TriggerInput) (*entity.DocumentWorkflow, error) {
	if in.DocumentID == "" || in.Collection == "" || in.WorkflowID == "" {
		return nil, fmt.Errorf("%w: documentId, collection and workflowId are required", port.ErrValidation)
	}

	wf, err := s.workflowRepo.GetByID(ctx, in.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	if wf == nil || !wf.IsActive {
		return nil, fmt.Errorf("%w: workflow not found or inactive", port.ErrNotFound)
	}

	instance := newInstance(in.DocumentID, in.Collection, wf.ID)
	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fmt.Errorf("%w: workflow already exists for this document", port.ErrConflict)
		}
		s.logger.Error("Failed to create workflow instance", "error", err, "document_id", in.DocumentID)
		return nil, fmt.Errorf("create instance: %w", err)
	}

	s.logger.Info("Workflow triggered",
		"instance_id", instance.ID,
		"document_id", instance.DocumentID,
		"workflow_id", wf.ID,
	)
	s.events.emit(ctx, event.NewEvent(event.TypeWorkflowTriggered, instance.DocumentID, instance.ID,
		fmt.Sprintf("Workflow %s started for document %s", wf.Name, instance.DocumentID),
		map[string]interface{}{"workflowId": wf.ID, "collection": instance.Collection}))

	return instance, nil
}

// Status returns every instance of the document with its workflow and ordered steps
func (s *workflowServiceImpl) Status(ctx context.Context, documentID string) ([]WorkflowStatus, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", port.ErrValidation)
	}

	instances, err := s.instanceRepo.Find(ctx, port.InstanceFilter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("find instances: %w", err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: no workflows found for this document", port.ErrNotFound)
	}

	statuses := make([]WorkflowStatus, 0, len(instances))
	for _, inst := range instances {
		wf, err := s.workflowRepo.GetByID(ctx, inst.WorkflowID)
		if err != nil {
			return nil, fmt.Errorf("get workflow %s: %w", inst.WorkflowID, err)
		}
		steps, err := s.stepRepo.ListByWorkflow(ctx, inst.WorkflowID)
		if err != nil {
			return nil, fmt.Errorf("list steps for %s: %w", inst.WorkflowID, err)
		}
		if steps == nil {
			steps = []*entity.WorkflowStep{}
		}
		statuses = append(statuses, WorkflowStatus{
			DocumentWorkflowID: inst.ID,
			WorkflowDetails:    wf,
			Steps:              steps,
			CurrentStep:        inst.CurrentStep,
			Status:             inst.Status,
		})
	}

	return statuses, nil
}

func (s *workflowServiceImpl) CreateWorkflow(ctx context.Context, in CreateWorkflowInput) (*entity.Workflow, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.TargetCollection == "" {
		return nil, fmt.Errorf("%w: name and targetCollection are required", port.ErrValidation)
	}

	wf := &entity.Workflow{
		ID:               uuid.NewString(),
		Name:             name,
		TargetCollection: in.TargetCollection,
		IsActive:         in.IsActive == nil || *in.IsActive,
	}
	if err := s.workflowRepo.Create(ctx, wf); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fmt.Errorf("%w: workflow %q already exists", port.ErrConflict, name)
		}
		return nil, fmt.Errorf("create workflow: %w", err)
	}

	s.logger.Info("Workflow created", "workflow_id", wf.ID, "name", wf.Name)
	return wf, nil
}

func (s *workflowServiceImpl) GetWorkflow(ctx context.Context, id string) (*entity.Workflow, error) {
	wf, err := s.workflowRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	if wf == nil {
		return nil, fmt.Errorf("%w: workflow %s", port.ErrNotFound, id)
	}
	return wf, nil
}

func (s *workflowServiceImpl) ListWorkflows(ctx context.Context) ([]*entity.Workflow, error) {
	return s.workflowRepo.List(ctx)
}

func (s *workflowServiceImpl) CreateStep(ctx context.Context, in CreateStepInput) (*entity.WorkflowStep, error) {
	if in.WorkflowID == "" || strings.TrimSpace(in.StepName) == "" {
		return nil, fmt.Errorf("%w: workflowId and stepName are required", port.ErrValidation)
	}
	if in.Order < 0 {
		return nil, fmt.Errorf("%w: order must not be negative", port.ErrValidation)
	}

	if _, err := s.GetWorkflow(ctx, in.WorkflowID); err != nil {
		return nil, err
	}

	step := &entity.WorkflowStep{
		ID:         uuid.NewString(),
		WorkflowID: in.WorkflowID,
		StepName:   strings.TrimSpace(in.StepName),
		Order:      in.Order,
		Conditions: in.Conditions,
	}
	if err := s.stepRepo.Create(ctx, step); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fmt.Errorf("%w: order %d already used in workflow", port.ErrConflict, in.Order)
		}
		return nil, fmt.Errorf("create step: %w", err)
	}
	return step, nil
}

func (s *workflowServiceImpl) ListSteps(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
	if workflowID == "" {
		return nil, fmt.Errorf("%w: workflowId is required", port.ErrValidation)
	}
	return s.stepRepo.ListByWorkflow(ctx, workflowID)
}

func (s *workflowServiceImpl) ListInstances(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error) {
	return s.instanceRepo.Find(ctx, filter)
}

func (s *workflowServiceImpl) GetInstance(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
	inst, err := s.instanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: document workflow %s", port.ErrNotFound, id)
	}
	return inst, nil
}

// Override applies a manual status change and/or moves currentStep forward.
// A reopen happens before the step moves; completion or rejection after.
func (s *workflowServiceImpl) Override(ctx context.Context, id string, in OverrideInput) (*entity.DocumentWorkflow, error) {
	if in.Status != nil && !entity.IsValidStatus(*in.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", port.ErrValidation, *in.Status)
	}

	inst, err := s.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CurrentStep != nil && *in.CurrentStep < inst.CurrentStep {
		return nil, fmt.Errorf("%w: currentStep can only move forward", port.ErrValidation)
	}
	if in.CurrentStep != nil && *in.CurrentStep > inst.CurrentStep {
		steps, err := s.stepRepo.ListByWorkflow(ctx, inst.WorkflowID)
		if err != nil {
			return nil, fmt.Errorf("list steps: %w", err)
		}
		if *in.CurrentStep >= len(steps) {
			return nil, fmt.Errorf("%w: currentStep %d is out of range for a workflow with %d steps",
				port.ErrValidation, *in.CurrentStep, len(steps))
		}
	}

	applyStatus := func() error {
		if in.Status == nil {
			return nil
		}
		trigger, ok := appwf.TriggerForStatus(domainwf.State(inst.Status), domainwf.State(*in.Status))
		if !ok {
			return nil
		}
		return s.engine.Fire(ctx, inst, trigger)
	}
	applyStep := func() error {
		if in.CurrentStep == nil {
			return nil
		}
		for inst.CurrentStep < *in.CurrentStep {
			if err := s.engine.Fire(ctx, inst, domainwf.TriggerAdvance); err != nil {
				return err
			}
		}
		return nil
	}

	order := []func() error{applyStep, applyStatus}
	if in.Status != nil && *in.Status == entity.StatusPending {
		order = []func() error{applyStatus, applyStep}
	}
	for _, apply := range order {
		if err := apply(); err != nil {
			if errors.Is(err, domainwf.ErrInvalidTransition) || errors.Is(err, domainwf.ErrGuardFailed) {
				return nil, fmt.Errorf("%w: %v", port.ErrConflict, err)
			}
			return nil, fmt.Errorf("override instance: %w", err)
		}
	}

	s.logger.Info("Workflow instance overridden",
		"instance_id", inst.ID,
		"status", inst.Status,
		"current_step", inst.CurrentStep,
	)
	return inst, nil
}

func newInstance(documentID, collection, workflowID string) *entity.DocumentWorkflow {
	return &entity.DocumentWorkflow{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		Collection:  collection,
		WorkflowID:  workflowID,
		CurrentStep: 0,
		Status:      entity.StatusPending,
	}
}
