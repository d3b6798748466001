package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/dispatcher"
	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/application/service"
	"github.com/garyjia/doc-workflow/internal/application/workflow"
	"github.com/garyjia/doc-workflow/internal/config"
	"github.com/garyjia/doc-workflow/internal/infrastructure/notify"
	"github.com/garyjia/doc-workflow/internal/infrastructure/persistence/repository"
	"github.com/garyjia/doc-workflow/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/doc-workflow/pkg/database"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.TxManager
}

// ProvideDatabase opens the database and applies pending migrations.
func ProvideDatabase(ctx context.Context, cfg database.Config, logger *zap.Logger) (*DatabaseBundle, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Workflow: repository.NewWorkflowRepository(db.DB, logger),
		Step:     repository.NewStepRepository(db.DB, logger),
		Instance: repository.NewDocumentWorkflowRepository(db.DB, logger),
		Log:      repository.NewWorkflowLogRepository(db.DB, logger),
		Blog:     repository.NewBlogRepository(db.DB, logger),
	}, nil
}

// ProvideNotifiers builds the enabled notification sinks.
func ProvideNotifiers(cfg *config.Config, logger *zap.Logger) []port.Notifier {
	var notifiers []port.Notifier

	if cfg.Notify.Log.Enabled {
		notifiers = append(notifiers, notify.NewLogNotifier(logger))
	}
	if cfg.Notify.Lark.Enabled {
		larkCfg := cfg.LarkOptions()
		messenger := notify.NewLarkMessenger(larkCfg, logger)
		notifiers = append(notifiers, notify.NewLarkNotifier(messenger, larkCfg.ChatID, logger))
	}

	return notifiers
}

// ProvideDispatcher creates the event dispatcher and subscribes the notification sinks.
func ProvideDispatcher(notifiers []port.Notifier, logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKVLogger(logger)))
	notify.Register(disp, logger, notifiers...)
	return disp, nil
}

// WorkflowBundle holds the transition engine and the advance policy built on it.
type WorkflowBundle struct {
	Engine workflow.TransitionEngine
	Policy workflow.AdvancePolicy
}

// ProvideWorkflow creates the transition engine and the configured advance policy.
func ProvideWorkflow(repos *RepositoryBundle, disp dispatcher.Dispatcher, advanceMode string, logger *zap.Logger) (*WorkflowBundle, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}

	engine := workflow.NewEngine(repos.Instance, repos.Step,
		workflow.WithDispatcher(disp),
		workflow.WithLogger(utils.NewKVLogger(logger)),
	)

	policy, err := workflow.NewAdvancePolicy(advanceMode, engine)
	if err != nil {
		return nil, err
	}
	logger.Info("Advance policy selected", zap.String("mode", policy.Mode()))

	return &WorkflowBundle{Engine: engine, Policy: policy}, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos       *RepositoryBundle
	TxManager   port.TransactionManager
	Dispatcher  dispatcher.Dispatcher
	Workflow    *WorkflowBundle
	AutoTrigger string
	Logger      *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil || deps.Workflow == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}

	logger := utils.NewKVLogger(deps.Logger)
	events := service.NewEventEmitter(deps.Dispatcher, logger)
	repos := deps.Repos

	return &ServiceBundle{
		Workflow: service.NewWorkflowService(repos.Workflow, repos.Step, repos.Instance,
			deps.Workflow.Engine, events, logger),
		Logs: service.NewLogService(repos.Log, repos.Instance, service.NewDocumentRegistry(repos.Blog),
			deps.Workflow.Policy, events, logger),
		Blog: service.NewBlogService(repos.Blog, repos.Workflow, repos.Instance, repos.Log,
			deps.TxManager, deps.Workflow.Engine, deps.AutoTrigger, logger),
		Export: service.NewExportService(repos.Log, logger),
	}, nil
}
