// Package seed loads workflow definitions from YAML into the store.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/application/service"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// File is the root of a workflow seed document
type File struct {
	Workflows []Workflow `yaml:"workflows"`
}

// Workflow is a workflow definition with its ordered steps
type Workflow struct {
	service.CreateWorkflowInput `yaml:",inline"`
	Steps                       []Step `yaml:"steps"`
}

// Step is one step of a seeded workflow
type Step struct {
	StepName   string `yaml:"stepName"`
	Order      int    `yaml:"order"`
	Conditions string `yaml:"conditions"`
}

// Report lists what Apply did by workflow name
type Report struct {
	Created []string
	Skipped []string
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes the seed document at path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Seeder writes seed documents through the workflow service
type Seeder struct {
	workflows    service.WorkflowService
	workflowRepo port.WorkflowRepository
	txManager    port.TransactionManager
	logger       Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	workflows service.WorkflowService,
	workflowRepo port.WorkflowRepository,
	txManager port.TransactionManager,
	logger Logger,
) *Seeder {
	return &Seeder{
		workflows:    workflows,
		workflowRepo: workflowRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Apply creates every workflow in f that does not exist yet, with its steps, in one
// transaction. Workflows are matched by name; existing ones are left untouched.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Report, error) {
	report := &Report{}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, def := range f.Workflows {
			existing, err := s.workflowRepo.GetByName(txCtx, def.Name)
			if err != nil {
				return fmt.Errorf("look up workflow %q: %w", def.Name, err)
			}
			if existing != nil {
				report.Skipped = append(report.Skipped, def.Name)
				continue
			}

			wf, err := s.workflows.CreateWorkflow(txCtx, def.CreateWorkflowInput)
			if err != nil {
				return fmt.Errorf("create workflow %q: %w", def.Name, err)
			}
			for _, step := range def.Steps {
				_, err := s.workflows.CreateStep(txCtx, service.CreateStepInput{
					WorkflowID: wf.ID,
					StepName:   step.StepName,
					Order:      step.Order,
					Conditions: step.Conditions,
				})
				if err != nil {
					return fmt.Errorf("create step %q of %q: %w", step.StepName, def.Name, err)
				}
			}
			report.Created = append(report.Created, wf.Name)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Seeding failed", "error", err)
		return nil, err
	}

	s.logger.Info("Seed applied", "created", len(report.Created), "skipped", len(report.Skipped))
	return report, nil
}
