package service

import (
	"context"
	"sync"

	"github.com/garyjia/doc-workflow/internal/application/port"
	appwf "github.com/garyjia/doc-workflow/internal/application/workflow"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	domainwf "github.com/garyjia/doc-workflow/internal/domain/workflow"
)

type mockWorkflowRepo struct {
	createFunc    func(ctx context.Context, wf *entity.Workflow) error
	getByIDFunc   func(ctx context.Context, id string) (*entity.Workflow, error)
	getByNameFunc func(ctx context.Context, name string) (*entity.Workflow, error)
	listFunc      func(ctx context.Context) ([]*entity.Workflow, error)
}

func (m *mockWorkflowRepo) Create(ctx context.Context, wf *entity.Workflow) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, wf)
	}
	return nil
}

func (m *mockWorkflowRepo) GetByID(ctx context.Context, id string) (*entity.Workflow, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkflowRepo) GetByName(ctx context.Context, name string) (*entity.Workflow, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockWorkflowRepo) List(ctx context.Context) ([]*entity.Workflow, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.Workflow{}, nil
}

type mockStepRepo struct {
	createFunc func(ctx context.Context, step *entity.WorkflowStep) error
	listFunc   func(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error)
}

func (m *mockStepRepo) Create(ctx context.Context, step *entity.WorkflowStep) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, step)
	}
	return nil
}

func (m *mockStepRepo) GetByID(ctx context.Context, id string) (*entity.WorkflowStep, error) {
	return nil, nil
}

func (m *mockStepRepo) ListByWorkflow(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, workflowID)
	}
	return nil, nil
}

type mockInstanceRepo struct {
	createFunc  func(ctx context.Context, instance *entity.DocumentWorkflow) error
	getByIDFunc func(ctx context.Context, id string) (*entity.DocumentWorkflow, error)
	findFunc    func(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error)
	updateFunc  func(ctx context.Context, instance *entity.DocumentWorkflow) error
}

func (m *mockInstanceRepo) Create(ctx context.Context, instance *entity.DocumentWorkflow) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, instance)
	}
	return nil
}

func (m *mockInstanceRepo) GetByID(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockInstanceRepo) Find(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockInstanceRepo) Update(ctx context.Context, instance *entity.DocumentWorkflow) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, instance)
	}
	return nil
}

type mockLogRepo struct {
	mu         sync.Mutex
	created    []*entity.WorkflowLog
	createFunc func(ctx context.Context, entry *entity.WorkflowLog) error
	listFunc   func(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error)
}

func (m *mockLogRepo) Create(ctx context.Context, entry *entity.WorkflowLog) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, entry)
	return nil
}

func (m *mockLogRepo) List(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

type mockBlogRepo struct {
	createFunc  func(ctx context.Context, post *entity.BlogPost) error
	getByIDFunc func(ctx context.Context, id string) (*entity.BlogPost, error)
	listFunc    func(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error)
}

func (m *mockBlogRepo) Create(ctx context.Context, post *entity.BlogPost) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	return nil
}

func (m *mockBlogRepo) GetByID(ctx context.Context, id string) (*entity.BlogPost, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBlogRepo) List(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*entity.BlogPost{}, nil
}

type mockTxManager struct {
	calls int
	err   error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type mockEngine struct {
	processWorkflowFunc func(ctx context.Context, documentID string, doc entity.Document) (*appwf.Result, error)
	processInstanceFunc func(ctx context.Context, instance *entity.DocumentWorkflow, doc entity.Document) (*appwf.Result, error)
	fireFunc            func(ctx context.Context, instance *entity.DocumentWorkflow, trigger domainwf.Trigger) error
	fired               []domainwf.Trigger
}

func (m *mockEngine) ProcessWorkflow(ctx context.Context, documentID string, doc entity.Document) (*appwf.Result, error) {
	if m.processWorkflowFunc != nil {
		return m.processWorkflowFunc(ctx, documentID, doc)
	}
	return &appwf.Result{Outcome: appwf.OutcomeNoInstance}, nil
}

func (m *mockEngine) ProcessInstance(ctx context.Context, instance *entity.DocumentWorkflow, doc entity.Document) (*appwf.Result, error) {
	if m.processInstanceFunc != nil {
		return m.processInstanceFunc(ctx, instance, doc)
	}
	return &appwf.Result{Outcome: appwf.OutcomeConditionNotMet, Instance: instance}, nil
}

func (m *mockEngine) Fire(ctx context.Context, instance *entity.DocumentWorkflow, trigger domainwf.Trigger) error {
	m.fired = append(m.fired, trigger)
	if m.fireFunc != nil {
		return m.fireFunc(ctx, instance, trigger)
	}
	machine := appwf.BuildInstanceStateMachine(domainwf.State(instance.Status))
	if err := machine.Fire(ctx, trigger); err != nil {
		return err
	}
	instance.Status = machine.State().String()
	if trigger == domainwf.TriggerAdvance {
		instance.CurrentStep++
	}
	return nil
}

type mockPolicy struct {
	mode      string
	applyFunc func(ctx context.Context, instance *entity.DocumentWorkflow, entry *entity.WorkflowLog, doc entity.Document) (*appwf.Result, error)
	lastDoc   entity.Document
}

func (m *mockPolicy) Apply(ctx context.Context, instance *entity.DocumentWorkflow, entry *entity.WorkflowLog, doc entity.Document) (*appwf.Result, error) {
	m.lastDoc = doc
	if m.applyFunc != nil {
		return m.applyFunc(ctx, instance, entry, doc)
	}
	return nil, nil
}

func (m *mockPolicy) Mode() string {
	if m.mode == "" {
		return appwf.AdvanceModeLogOnly
	}
	return m.mode
}

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func ptr[T any](v T) *T { return &v }
