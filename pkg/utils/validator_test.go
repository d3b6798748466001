package utils

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireFields(t *testing.T) {
	assert.NoError(t, RequireFields(Field{"title", "Hello"}, Field{"content", "body"}))

	err := RequireFields(Field{"title", " "}, Field{"content", "x"}, Field{"collection", ""})
	require.Error(t, err)
	assert.Equal(t, "missing required fields: title, collection", err.Error())
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(15000))
	assert.Error(t, ValidateAmount(-1))
	assert.Error(t, ValidateAmount(math.NaN()))
	assert.Error(t, ValidateAmount(math.Inf(1)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "line one\nline\ttwo", SanitizeString("line one\n\x00line\ttwo\x07"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "bogus", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
	assert.False(t, logger.Core().Enabled(-1), "unknown level falls back to info")

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	fileLogger, err := NewLogger(LoggerConfig{Level: "debug", OutputPath: path, Format: "json", Service: "doc-workflow"})
	require.NoError(t, err)
	fileLogger.Info("hello")
	require.NoError(t, fileLogger.Sync())
	assert.FileExists(t, path)
}
