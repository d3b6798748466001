package config

import (
	"github.com/garyjia/doc-workflow/internal/infrastructure/notify"
	"github.com/garyjia/doc-workflow/pkg/database"
	"github.com/garyjia/doc-workflow/pkg/utils"
)

// ServiceName tags every log entry
const ServiceName = "doc-workflow"

// DatabaseOptions converts the database section for database.New
func (c *Config) DatabaseOptions() database.Config {
	return database.Config{
		Path:            c.Database.Path,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// LoggerOptions converts the logger section for utils.NewLogger
func (c *Config) LoggerOptions() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
		Service:    ServiceName,
	}
}

// LarkOptions converts the lark sink section for notify.NewLarkMessenger
func (c *Config) LarkOptions() notify.LarkConfig {
	return notify.LarkConfig{
		AppID:     c.Notify.Lark.AppID,
		AppSecret: c.Notify.Lark.AppSecret,
		ChatID:    c.Notify.Lark.ChatID,
	}
}
