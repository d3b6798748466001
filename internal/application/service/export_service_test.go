package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

func TestExportService_ExportLogs(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo := &mockLogRepo{
		listFunc: func(ctx context.Context, filter port.LogFilter) ([]*entity.WorkflowLog, error) {
			assert.Equal(t, "doc-1", filter.DocumentID)
			assert.False(t, filter.NewestFirst)
			return []*entity.WorkflowLog{
				{Action: "commented", UserID: "system", StepID: "1", Comment: "Workflow started", Collection: "blog", DocumentWorkflowID: "i1", CreatedAt: created},
				{Action: "approved", UserID: "u-1", StepID: "0", Collection: "blog", DocumentWorkflowID: "i1", CreatedAt: created.Add(time.Hour)},
			}, nil
		},
	}

	data, err := NewExportService(repo, &mockLogger{}).ExportLogs(context.Background(), "doc-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"2024-03-01 09:30:00", "commented", "system", "1", "Workflow started", "blog", "i1"}, rows[1])
	assert.Equal(t, "approved", rows[2][1])
}

func TestExportService_RequiresDocument(t *testing.T) {
	_, err := NewExportService(&mockLogRepo{}, &mockLogger{}).ExportLogs(context.Background(), "")
	assert.ErrorIs(t, err, port.ErrValidation)
}
