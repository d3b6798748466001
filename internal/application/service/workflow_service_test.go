package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

type workflowFixture struct {
	workflows *mockWorkflowRepo
	steps     *mockStepRepo
	instances *mockInstanceRepo
	engine    *mockEngine
	svc       WorkflowService
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		workflows: &mockWorkflowRepo{},
		steps:     &mockStepRepo{},
		instances: &mockInstanceRepo{},
		engine:    &mockEngine{},
	}
	f.svc = NewWorkflowService(f.workflows, f.steps, f.instances, f.engine, EventEmitter{}, &mockLogger{})
	return f
}

func activeWorkflow(id string) func(ctx context.Context, got string) (*entity.Workflow, error) {
	return func(ctx context.Context, got string) (*entity.Workflow, error) {
		if got != id {
			return nil, nil
		}
		return &entity.Workflow{ID: id, Name: "Blog Approval", TargetCollection: "blog", IsActive: true}, nil
	}
}

func TestWorkflowService_Trigger(t *testing.T) {
	valid := TriggerInput{DocumentID: "doc-1", Collection: "blog", WorkflowID: "wf-1"}

	t.Run("creates pending instance at step zero", func(t *testing.T) {
		f := newWorkflowFixture()
		f.workflows.getByIDFunc = activeWorkflow("wf-1")
		var created *entity.DocumentWorkflow
		f.instances.createFunc = func(ctx context.Context, instance *entity.DocumentWorkflow) error {
			created = instance
			return nil
		}

		inst, err := f.svc.Trigger(context.Background(), valid)
		require.NoError(t, err)
		assert.Same(t, created, inst)
		assert.NotEmpty(t, inst.ID)
		assert.Equal(t, 0, inst.CurrentStep)
		assert.Equal(t, entity.StatusPending, inst.Status)
		assert.Equal(t, "wf-1", inst.WorkflowID)
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, in := range []TriggerInput{
			{Collection: "blog", WorkflowID: "wf-1"},
			{DocumentID: "doc-1", WorkflowID: "wf-1"},
			{DocumentID: "doc-1", Collection: "blog"},
		} {
			_, err := newWorkflowFixture().svc.Trigger(context.Background(), in)
			assert.ErrorIs(t, err, port.ErrValidation)
		}
	})

	t.Run("unknown workflow", func(t *testing.T) {
		f := newWorkflowFixture()
		f.instances.createFunc = func(ctx context.Context, instance *entity.DocumentWorkflow) error {
			t.Fatal("instance must not be created")
			return nil
		}
		_, err := f.svc.Trigger(context.Background(), valid)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("inactive workflow", func(t *testing.T) {
		f := newWorkflowFixture()
		f.workflows.getByIDFunc = func(ctx context.Context, id string) (*entity.Workflow, error) {
			return &entity.Workflow{ID: id, IsActive: false}, nil
		}
		f.instances.createFunc = func(ctx context.Context, instance *entity.DocumentWorkflow) error {
			t.Fatal("instance must not be created")
			return nil
		}
		_, err := f.svc.Trigger(context.Background(), valid)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("duplicate becomes conflict", func(t *testing.T) {
		f := newWorkflowFixture()
		f.workflows.getByIDFunc = activeWorkflow("wf-1")
		f.instances.createFunc = func(ctx context.Context, instance *entity.DocumentWorkflow) error {
			return fmt.Errorf("insert: %w", port.ErrDuplicate)
		}
		_, err := f.svc.Trigger(context.Background(), valid)
		assert.ErrorIs(t, err, port.ErrConflict)
	})

	t.Run("store failure is not classified", func(t *testing.T) {
		f := newWorkflowFixture()
		f.workflows.getByIDFunc = activeWorkflow("wf-1")
		f.instances.createFunc = func(ctx context.Context, instance *entity.DocumentWorkflow) error {
			return errors.New("disk full")
		}
		_, err := f.svc.Trigger(context.Background(), valid)
		require.Error(t, err)
		assert.NotErrorIs(t, err, port.ErrConflict)
		assert.NotErrorIs(t, err, port.ErrNotFound)
	})
}

func TestWorkflowService_Status(t *testing.T) {
	t.Run("joins instances with workflow and steps", func(t *testing.T) {
		f := newWorkflowFixture()
		f.workflows.getByIDFunc = activeWorkflow("wf-1")
		f.instances.findFunc = func(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error) {
			assert.Equal(t, "doc-1", filter.DocumentID)
			return []*entity.DocumentWorkflow{{ID: "i1", DocumentID: "doc-1", WorkflowID: "wf-1", CurrentStep: 1, Status: "pending"}}, nil
		}
		f.steps.listFunc = func(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
			return []*entity.WorkflowStep{{StepName: "A", Order: 1}, {StepName: "B", Order: 2}}, nil
		}

		statuses, err := f.svc.Status(context.Background(), "doc-1")
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "i1", statuses[0].DocumentWorkflowID)
		assert.Equal(t, "Blog Approval", statuses[0].WorkflowDetails.Name)
		assert.Len(t, statuses[0].Steps, 2)
		assert.Equal(t, 1, statuses[0].CurrentStep)
		assert.Equal(t, "pending", statuses[0].Status)
	})

	t.Run("no instances", func(t *testing.T) {
		_, err := newWorkflowFixture().svc.Status(context.Background(), "doc-1")
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := newWorkflowFixture().svc.Status(context.Background(), "")
		assert.ErrorIs(t, err, port.ErrValidation)
	})
}

func TestWorkflowService_CreateWorkflowAndSteps(t *testing.T) {
	f := newWorkflowFixture()

	wf, err := f.svc.CreateWorkflow(context.Background(), CreateWorkflowInput{Name: " Blog Approval ", TargetCollection: "blog"})
	require.NoError(t, err)
	assert.Equal(t, "Blog Approval", wf.Name)
	assert.True(t, wf.IsActive, "workflows are active by default")

	inactive, err := f.svc.CreateWorkflow(context.Background(), CreateWorkflowInput{Name: "Old", TargetCollection: "blog", IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	_, err = f.svc.CreateWorkflow(context.Background(), CreateWorkflowInput{Name: "x"})
	assert.ErrorIs(t, err, port.ErrValidation)

	f.workflows.createFunc = func(ctx context.Context, wf *entity.Workflow) error { return port.ErrDuplicate }
	_, err = f.svc.CreateWorkflow(context.Background(), CreateWorkflowInput{Name: "Blog Approval", TargetCollection: "blog"})
	assert.ErrorIs(t, err, port.ErrConflict)

	_, err = f.svc.CreateStep(context.Background(), CreateStepInput{WorkflowID: "missing", StepName: "A"})
	assert.ErrorIs(t, err, port.ErrNotFound)

	f.workflows.getByIDFunc = activeWorkflow("wf-1")
	step, err := f.svc.CreateStep(context.Background(), CreateStepInput{WorkflowID: "wf-1", StepName: "Finance", Order: 2, Conditions: "amount > 100"})
	require.NoError(t, err)
	assert.Equal(t, 2, step.Order)
	assert.Equal(t, "amount > 100", step.Conditions)

	_, err = f.svc.CreateStep(context.Background(), CreateStepInput{WorkflowID: "wf-1", StepName: "A", Order: -1})
	assert.ErrorIs(t, err, port.ErrValidation)

	f.steps.createFunc = func(ctx context.Context, step *entity.WorkflowStep) error { return port.ErrDuplicate }
	_, err = f.svc.CreateStep(context.Background(), CreateStepInput{WorkflowID: "wf-1", StepName: "Again", Order: 2})
	assert.ErrorIs(t, err, port.ErrConflict)
}

func TestWorkflowService_Override(t *testing.T) {
	instance := func(step int, status string) func(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
		return func(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
			return &entity.DocumentWorkflow{ID: id, DocumentID: "doc-1", CurrentStep: step, Status: status}, nil
		}
	}

	tests := []struct {
		name        string
		step        int
		status      string
		in          OverrideInput
		wantErr     error
		wantStep    int
		wantStatus  string
		wantTrigger []domainwf.Trigger
	}{
		{"advance step", 0, "pending", OverrideInput{CurrentStep: ptr(2)}, nil, 2, "pending",
			[]domainwf.Trigger{domainwf.TriggerAdvance, domainwf.TriggerAdvance}},
		{"same step is a no-op", 1, "pending", OverrideInput{CurrentStep: ptr(1)}, nil, 1, "pending", nil},
		{"backwards step", 2, "pending", OverrideInput{CurrentStep: ptr(1)}, port.ErrValidation, 0, "", nil},
		{"invalid status", 0, "pending", OverrideInput{Status: ptr("archived")}, port.ErrValidation, 0, "", nil},
		{"complete", 0, "pending", OverrideInput{Status: ptr("completed")}, nil, 0, "completed",
			[]domainwf.Trigger{domainwf.TriggerComplete}},
		{"advance then reject", 0, "pending", OverrideInput{Status: ptr("rejected"), CurrentStep: ptr(1)}, nil, 1, "rejected",
			[]domainwf.Trigger{domainwf.TriggerAdvance, domainwf.TriggerReject}},
		{"reopen then advance", 0, "rejected", OverrideInput{Status: ptr("pending"), CurrentStep: ptr(1)}, nil, 1, "pending",
			[]domainwf.Trigger{domainwf.TriggerReopen, domainwf.TriggerAdvance}},
		{"completed to rejected", 0, "completed", OverrideInput{Status: ptr("rejected")}, port.ErrConflict, 0, "", nil},
		{"advance finished instance", 0, "completed", OverrideInput{CurrentStep: ptr(1)}, port.ErrConflict, 0, "", nil},
		{"step past the last", 0, "pending", OverrideInput{CurrentStep: ptr(3)}, port.ErrValidation, 0, "", nil},
	}

	threeSteps := func(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
		return []*entity.WorkflowStep{{StepName: "A", Order: 1}, {StepName: "B", Order: 2}, {StepName: "C", Order: 3}}, nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture()
			f.instances.getByIDFunc = instance(tt.step, tt.status)
			f.steps.listFunc = threeSteps

			got, err := f.svc.Override(context.Background(), "i1", tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStep, got.CurrentStep)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantTrigger, f.engine.fired)
		})
	}

	t.Run("huge step fires nothing", func(t *testing.T) {
		f := newWorkflowFixture()
		f.instances.getByIDFunc = instance(0, "pending")
		f.steps.listFunc = threeSteps

		_, err := f.svc.Override(context.Background(), "i1", OverrideInput{CurrentStep: ptr(1000000)})
		assert.ErrorIs(t, err, port.ErrValidation)
		assert.Empty(t, f.engine.fired)
	})

	t.Run("unknown instance", func(t *testing.T) {
		_, err := newWorkflowFixture().svc.Override(context.Background(), "nope", OverrideInput{CurrentStep: ptr(1)})
		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
