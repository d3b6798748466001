package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/service"
	"github.com/garyjia/doc-workflow/internal/auth"
	"github.com/garyjia/doc-workflow/internal/config"
	"github.com/garyjia/doc-workflow/internal/domain/event"
	"github.com/garyjia/doc-workflow/pkg/database"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 3000, Mode: "test"},
		Database: config.DatabaseConfig{Path: database.MemoryPath},
		Auth:     config.AuthConfig{Secret: "test-secret"},
		Workflow: config.WorkflowConfig{AdvanceMode: "auto_advance"},
		Notify:   config.NotifyConfig{Log: config.LogSinkConfig{Enabled: true}},
	}
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Auth.Secret = ""
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start is rejected")

	health := c.Health(ctx)
	assert.True(t, health.Overall)
	assert.Equal(t, "advance mode: auto_advance", health.Components["workflow"].Message)

	assert.Len(t, c.Dispatcher().ListHandlers(event.TypeApprovalRequested), 1, "log sink subscribed")
	assert.NotNil(t, c.Server())

	wf, err := c.Services().Workflow.CreateWorkflow(ctx, service.CreateWorkflowInput{Name: "Blog Approval", TargetCollection: "blog"})
	require.NoError(t, err)
	got, err := c.Repositories().Workflow.GetByName(ctx, "Blog Approval")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, wf.ID, got.ID)

	token, err := c.Tokens().Issue(authActor())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(ctx))
}

func TestProvideNotifiers(t *testing.T) {
	cfg := testConfig()
	assert.Len(t, ProvideNotifiers(cfg, zap.NewNop()), 1)

	cfg.Notify.Log.Enabled = false
	assert.Empty(t, ProvideNotifiers(cfg, zap.NewNop()))

	cfg.Notify.Lark = config.LarkSinkConfig{Enabled: true, AppID: "a", AppSecret: "b", ChatID: "c"}
	notifiers := ProvideNotifiers(cfg, zap.NewNop())
	require.Len(t, notifiers, 1)
	assert.Equal(t, "lark", notifiers[0].Name())
}

func authActor() auth.Actor {
	return auth.Actor{ID: "admin-1", Role: auth.RoleAdmin}
}
