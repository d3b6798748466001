package workflow

import (
	"context"
	"fmt"

	"github.com/garyjia/doc-workflow/internal/application/dispatcher"
	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/domain/event"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// engineImpl is the concrete implementation of TransitionEngine
type engineImpl struct {
	instanceRepo port.DocumentWorkflowRepository
	stepRepo     port.StepRepository
	dispatcher   dispatcher.Dispatcher
	logger       Logger
}

// EngineOption configures the transition engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher used for notifications
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithLogger sets the engine logger
func WithLogger(l Logger) EngineOption {
	return func(e *engineImpl) {
		e.logger = l
	}
}

// NewEngine creates a new transition engine.
// Store calls are not wrapped in a transaction; concurrent passes over one instance may race.
func NewEngine(
	instanceRepo port.DocumentWorkflowRepository,
	stepRepo port.StepRepository,
	opts ...EngineOption,
) TransitionEngine {
	e := &engineImpl{
		instanceRepo: instanceRepo,
		stepRepo:     stepRepo,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ProcessWorkflow looks up the first instance for the document and processes it
func (e *engineImpl) ProcessWorkflow(ctx context.Context, documentID string, doc entity.Document) (*Result, error) {
	instances, err := e.instanceRepo.Find(ctx, port.InstanceFilter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("failed to find workflow instance for document %s: %w", documentID, err)
	}
	if len(instances) == 0 {
		return &Result{Outcome: OutcomeNoInstance}, nil
	}

	return e.ProcessInstance(ctx, instances[0], doc)
}

// ProcessInstance evaluates the step after CurrentStep. With no such step the instance
// completes; otherwise an approval request is emitted when the step condition holds.
// CurrentStep is never moved here.
func (e *engineImpl) ProcessInstance(ctx context.Context, instance *entity.DocumentWorkflow, doc entity.Document) (*Result, error) {
	if domainwf.State(instance.Status).IsTerminal() {
		return &Result{Outcome: OutcomeAlreadyFinal, Instance: instance}, nil
	}

	steps, err := e.stepRepo.ListByWorkflow(ctx, instance.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps for workflow %s: %w", instance.WorkflowID, err)
	}

	nextIndex := instance.CurrentStep + 1
	if nextIndex < 0 || nextIndex >= len(steps) {
		if err := e.Fire(ctx, instance, domainwf.TriggerComplete); err != nil {
			return nil, err
		}
		return &Result{
			Outcome:  OutcomeCompleted,
			Instance: instance,
			Message:  fmt.Sprintf("Workflow completed for document %s", instance.DocumentID),
		}, nil
	}

	next := steps[nextIndex]
	if !domainwf.EvaluateCondition(next.Conditions, doc) {
		return &Result{Outcome: OutcomeConditionNotMet, Instance: instance, NextStep: next}, nil
	}

	msg := fmt.Sprintf("Step %s needs approval for document %s", next.StepName, instance.DocumentID)
	e.emit(ctx, event.NewEvent(event.TypeApprovalRequested, instance.DocumentID, instance.ID, msg,
		map[string]interface{}{
			"stepId":     next.ID,
			"stepName":   next.StepName,
			"stepIndex":  nextIndex,
			"workflowId": instance.WorkflowID,
			"collection": instance.Collection,
		}))

	return &Result{
		Outcome:  OutcomeApprovalRequested,
		Instance: instance,
		NextStep: next,
		Message:  msg,
	}, nil
}

// Fire validates the trigger against the instance status, persists the change and emits
// the matching event. The instance is left untouched when the update fails.
func (e *engineImpl) Fire(ctx context.Context, instance *entity.DocumentWorkflow, trigger domainwf.Trigger) error {
	current := domainwf.State(instance.Status)
	if !current.IsValid() {
		return fmt.Errorf("%w: %q on instance %s", domainwf.ErrInvalidState, instance.Status, instance.ID)
	}

	machine := BuildInstanceStateMachine(current)
	if !machine.CanFire(trigger) {
		return fmt.Errorf("%w: instance %s cannot %s from %s, permitted %v",
			domainwf.ErrInvalidTransition, instance.ID, trigger, current, machine.PermittedTriggers())
	}
	if err := machine.Fire(ctx, trigger); err != nil {
		return fmt.Errorf("instance %s: %w", instance.ID, err)
	}

	updated := *instance
	updated.Status = machine.State().String()
	if trigger == domainwf.TriggerAdvance {
		updated.CurrentStep++
	}

	if err := e.instanceRepo.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update workflow instance %s: %w", instance.ID, err)
	}
	*instance = updated

	if e.logger != nil {
		e.logger.Info("Workflow instance transitioned",
			"instance_id", instance.ID,
			"document_id", instance.DocumentID,
			"trigger", trigger.String(),
			"from", current.String(),
			"to", instance.Status,
			"current_step", instance.CurrentStep,
		)
	}

	if evt := transitionEvent(instance, trigger, current); evt != nil {
		e.emit(ctx, evt)
	}
	return nil
}

func transitionEvent(instance *entity.DocumentWorkflow, trigger domainwf.Trigger, from domainwf.State) *event.Event {
	payload := map[string]interface{}{
		"previousStatus": from.String(),
		"status":         instance.Status,
		"currentStep":    instance.CurrentStep,
		"workflowId":     instance.WorkflowID,
	}

	switch trigger {
	case domainwf.TriggerComplete:
		return event.NewEvent(event.TypeWorkflowCompleted, instance.DocumentID, instance.ID,
			fmt.Sprintf("Workflow completed for document %s", instance.DocumentID), payload)
	case domainwf.TriggerReject:
		return event.NewEvent(event.TypeWorkflowRejected, instance.DocumentID, instance.ID,
			fmt.Sprintf("Workflow rejected for document %s", instance.DocumentID), payload)
	case domainwf.TriggerAdvance:
		return event.NewEvent(event.TypeStepAdvanced, instance.DocumentID, instance.ID,
			fmt.Sprintf("Document %s advanced to step %d", instance.DocumentID, instance.CurrentStep), payload)
	}
	return nil
}

// emit dispatches synchronously; sink failures are logged and never fail the transition
func (e *engineImpl) emit(ctx context.Context, evt *event.Event) {
	if e.dispatcher == nil {
		return
	}
	if err := e.dispatcher.Dispatch(ctx, evt); err != nil && e.logger != nil {
		e.logger.Error("Failed to dispatch workflow event",
			"event_type", evt.Type.String(),
			"document_id", evt.DocumentID,
			"error", err,
		)
	}
}

// Verify interface compliance
var _ TransitionEngine = (*engineImpl)(nil)
