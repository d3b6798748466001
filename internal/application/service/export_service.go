package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/doc-workflow/internal/application/port"
)

const exportSheet = "Workflow Log"

var exportHeaders = []string{"Time", "Action", "User", "Step", "Comment", "Collection", "Document Workflow"}

// ExportService renders workflow log history as a spreadsheet
type ExportService interface {
	ExportLogs(ctx context.Context, documentID string) ([]byte, error)
}

type exportServiceImpl struct {
	logRepo port.WorkflowLogRepository
	logger  Logger
}

// NewExportService creates a new ExportService
func NewExportService(logRepo port.WorkflowLogRepository, logger Logger) ExportService {
	return &exportServiceImpl{logRepo: logRepo, logger: logger}
}

// ExportLogs returns an xlsx workbook of the document's log entries, oldest first
func (s *exportServiceImpl) ExportLogs(ctx context.Context, documentID string) ([]byte, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: documentId is required", port.ErrValidation)
	}

	entries, err := s.logRepo.List(ctx, port.LogFilter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Action,
			e.UserID,
			e.StepID,
			e.Comment,
			e.Collection,
			e.DocumentWorkflowID,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Workflow log exported", "document_id", documentID, "rows", len(entries))
	return buf.Bytes(), nil
}
