package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/garyjia/doc-workflow/internal/application/dispatcher"
	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
	"github.com/garyjia/doc-workflow/internal/domain/event"
)

type mockInstanceRepo struct {
	mu        sync.Mutex
	instances []*entity.DocumentWorkflow
	updates   int
	findErr   error
	updateErr error
}

func (m *mockInstanceRepo) Create(ctx context.Context, instance *entity.DocumentWorkflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *instance
	m.instances = append(m.instances, &copied)
	return nil
}

func (m *mockInstanceRepo) GetByID(ctx context.Context, id string) (*entity.DocumentWorkflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instances {
		if inst.ID == id {
			copied := *inst
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockInstanceRepo) Find(ctx context.Context, filter port.InstanceFilter) ([]*entity.DocumentWorkflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []*entity.DocumentWorkflow
	for i := len(m.instances) - 1; i >= 0; i-- {
		inst := m.instances[i]
		if filter.DocumentID != "" && inst.DocumentID != filter.DocumentID {
			continue
		}
		copied := *inst
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockInstanceRepo) Update(ctx context.Context, instance *entity.DocumentWorkflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, inst := range m.instances {
		if inst.ID == instance.ID {
			copied := *instance
			m.instances[i] = &copied
			m.updates++
			return nil
		}
	}
	return errors.New("instance not found")
}

func (m *mockInstanceRepo) stored(id string) *entity.DocumentWorkflow {
	inst, _ := m.GetByID(context.Background(), id)
	return inst
}

type mockStepRepo struct {
	steps   map[string][]*entity.WorkflowStep
	listErr error
}

func (m *mockStepRepo) Create(ctx context.Context, step *entity.WorkflowStep) error {
	m.steps[step.WorkflowID] = append(m.steps[step.WorkflowID], step)
	return nil
}

func (m *mockStepRepo) GetByID(ctx context.Context, id string) (*entity.WorkflowStep, error) {
	return nil, nil
}

func (m *mockStepRepo) ListByWorkflow(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.steps[workflowID], nil
}

type mockDispatcher struct {
	mu          sync.Mutex
	events      []*event.Event
	dispatchErr error
}

func (m *mockDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler) {}

func (m *mockDispatcher) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {
}

func (m *mockDispatcher) Unsubscribe(eventType event.Type, name string) {}

func (m *mockDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return m.dispatchErr
}

func (m *mockDispatcher) ListHandlers(eventType event.Type) []dispatcher.HandlerInfo { return nil }

func (m *mockDispatcher) Close() error { return nil }

func (m *mockDispatcher) ofType(t event.Type) []*event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*event.Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type mockLogger struct {
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  { m.infos = append(m.infos, msg) }
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) { m.errors = append(m.errors, msg) }

func steps(workflowID string, defs ...[2]string) []*entity.WorkflowStep {
	out := make([]*entity.WorkflowStep, len(defs))
	for i, d := range defs {
		out[i] = &entity.WorkflowStep{
			ID:         workflowID + "-step-" + d[0],
			WorkflowID: workflowID,
			StepName:   d[0],
			Order:      i + 1,
			Conditions: d[1],
		}
	}
	return out
}

func pendingInstance(id, docID, workflowID string, step int) *entity.DocumentWorkflow {
	return &entity.DocumentWorkflow{
		ID:          id,
		DocumentID:  docID,
		Collection:  entity.CollectionBlog,
		WorkflowID:  workflowID,
		CurrentStep: step,
		Status:      entity.StatusPending,
	}
}

type fixture struct {
	instances  *mockInstanceRepo
	steps      *mockStepRepo
	dispatcher *mockDispatcher
	logger     *mockLogger
	engine     TransitionEngine
}

func newFixture() *fixture {
	f := &fixture{
		instances:  &mockInstanceRepo{},
		steps:      &mockStepRepo{steps: map[string][]*entity.WorkflowStep{}},
		dispatcher: &mockDispatcher{},
		logger:     &mockLogger{},
	}
	f.engine = NewEngine(f.instances, f.steps, WithDispatcher(f.dispatcher), WithLogger(f.logger))
	return f
}
