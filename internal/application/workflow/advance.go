package workflow

import (
	"context"
	"fmt"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

// Advance modes accepted by NewAdvancePolicy
const (
	AdvanceModeLogOnly     = "log_only"
	AdvanceModeAutoAdvance = "auto_advance"
)

// AdvancePolicy decides how an appended log entry affects its instance
type AdvancePolicy interface {
	// Apply returns nil when the entry leaves the instance untouched
	Apply(ctx context.Context, instance *entity.DocumentWorkflow, entry *entity.WorkflowLog, doc entity.Document) (*Result, error)
	Mode() string
}

// NewAdvancePolicy returns the policy for mode. An empty mode selects log_only.
func NewAdvancePolicy(mode string, engine TransitionEngine) (AdvancePolicy, error) {
	switch mode {
	case "", AdvanceModeLogOnly:
		return LogOnlyPolicy{}, nil
	case AdvanceModeAutoAdvance:
		return &AutoAdvancePolicy{engine: engine}, nil
	default:
		return nil, fmt.Errorf("unknown advance mode %q", mode)
	}
}

// LogOnlyPolicy records actions without touching instances
type LogOnlyPolicy struct{}

func (LogOnlyPolicy) Apply(ctx context.Context, instance *entity.DocumentWorkflow, entry *entity.WorkflowLog, doc entity.Document) (*Result, error) {
	return nil, nil
}

func (LogOnlyPolicy) Mode() string { return AdvanceModeLogOnly }

// AutoAdvancePolicy moves pending instances on approve and reject entries
type AutoAdvancePolicy struct {
	engine TransitionEngine
}

// NewAutoAdvancePolicy creates an auto-advance policy backed by engine
func NewAutoAdvancePolicy(engine TransitionEngine) *AutoAdvancePolicy {
	return &AutoAdvancePolicy{engine: engine}
}

func (p *AutoAdvancePolicy) Mode() string { return AdvanceModeAutoAdvance }

// Apply advances on approved, rejects on rejected and ignores comments.
// Instances that are no longer pending are left alone.
func (p *AutoAdvancePolicy) Apply(ctx context.Context, instance *entity.DocumentWorkflow, entry *entity.WorkflowLog, doc entity.Document) (*Result, error) {
	if !instance.IsPending() {
		return nil, nil
	}

	switch entry.Action {
	case entity.ActionApproved:
		if err := p.engine.Fire(ctx, instance, domainwf.TriggerAdvance); err != nil {
			return nil, fmt.Errorf("failed to advance instance: %w", err)
		}
		return p.engine.ProcessInstance(ctx, instance, doc)

	case entity.ActionRejected:
		if err := p.engine.Fire(ctx, instance, domainwf.TriggerReject); err != nil {
			return nil, fmt.Errorf("failed to reject instance: %w", err)
		}
		return &Result{
			Outcome:  OutcomeRejected,
			Instance: instance,
			Message:  fmt.Sprintf("Workflow rejected for document %s", instance.DocumentID),
		}, nil
	}

	return nil, nil
}
