package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/application/service"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TriggerResponse is the body of a successful trigger
type TriggerResponse struct {
	Success          bool                     `json:"success"`
	DocumentWorkflow *entity.DocumentWorkflow `json:"documentWorkflow"`
	Message          string                   `json:"message"`
}

// StatusResponse lists every workflow attached to a document
type StatusResponse struct {
	Success    bool                     `json:"success"`
	DocumentID string                   `json:"documentId"`
	Workflows  []service.WorkflowStatus `json:"workflows"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// TriggerWorkflow handles POST /api/workflows/trigger
func (h *Handlers) TriggerWorkflow(c *gin.Context) {
	var in service.TriggerInput
	if !h.bindJSON(c, &in) {
		return
	}

	instance, err := h.services.Workflow.Trigger(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "trigger workflow", err)
		return
	}

	c.JSON(http.StatusOK, TriggerResponse{
		Success:          true,
		DocumentWorkflow: instance,
		Message:          "Workflow triggered successfully",
	})
}

// WorkflowStatus handles GET /api/workflows/status/:docId
func (h *Handlers) WorkflowStatus(c *gin.Context) {
	docID := c.Param("docId")

	workflows, err := h.services.Workflow.Status(c.Request.Context(), docID)
	if err != nil {
		h.respondError(c, "workflow status", err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Success:    true,
		DocumentID: docID,
		Workflows:  workflows,
	})
}

// ListWorkflows handles GET /api/workflows
func (h *Handlers) ListWorkflows(c *gin.Context) {
	workflows, err := h.services.Workflow.ListWorkflows(c.Request.Context())
	if err != nil {
		h.respondError(c, "list workflows", err)
		return
	}
	ok(c, http.StatusOK, workflows)
}

// CreateWorkflow handles POST /api/workflows
func (h *Handlers) CreateWorkflow(c *gin.Context) {
	var in service.CreateWorkflowInput
	if !h.bindJSON(c, &in) {
		return
	}

	wf, err := h.services.Workflow.CreateWorkflow(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "create workflow", err)
		return
	}
	ok(c, http.StatusCreated, wf)
}

// GetWorkflow handles GET /api/workflows/:id
func (h *Handlers) GetWorkflow(c *gin.Context) {
	wf, err := h.services.Workflow.GetWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get workflow", err)
		return
	}
	ok(c, http.StatusOK, wf)
}

// ListSteps handles GET /api/workflow-steps?workflowId=
func (h *Handlers) ListSteps(c *gin.Context) {
	steps, err := h.services.Workflow.ListSteps(c.Request.Context(), c.Query("workflowId"))
	if err != nil {
		h.respondError(c, "list steps", err)
		return
	}
	ok(c, http.StatusOK, steps)
}

// CreateStep handles POST /api/workflow-steps
func (h *Handlers) CreateStep(c *gin.Context) {
	var in service.CreateStepInput
	if !h.bindJSON(c, &in) {
		return
	}

	step, err := h.services.Workflow.CreateStep(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "create step", err)
		return
	}
	ok(c, http.StatusCreated, step)
}

// ListDocumentWorkflows handles GET /api/document-workflows
func (h *Handlers) ListDocumentWorkflows(c *gin.Context) {
	filter := port.InstanceFilter{
		DocumentID: c.Query("documentId"),
		Collection: c.Query("collection"),
		WorkflowID: c.Query("workflowId"),
	}

	instances, err := h.services.Workflow.ListInstances(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "list document workflows", err)
		return
	}
	ok(c, http.StatusOK, instances)
}

// GetDocumentWorkflow handles GET /api/document-workflows/:id
func (h *Handlers) GetDocumentWorkflow(c *gin.Context) {
	instance, err := h.services.Workflow.GetInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get document workflow", err)
		return
	}
	ok(c, http.StatusOK, instance)
}

// OverrideDocumentWorkflow handles PATCH /api/document-workflows/:id
func (h *Handlers) OverrideDocumentWorkflow(c *gin.Context) {
	var in service.OverrideInput
	if !h.bindJSON(c, &in) {
		return
	}
	if in.Status == nil && in.CurrentStep == nil {
		abort(c, http.StatusBadRequest, "status or currentStep is required")
		return
	}

	instance, err := h.services.Workflow.Override(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, "override document workflow", err)
		return
	}
	ok(c, http.StatusOK, instance)
}

// ListLogs handles GET /api/workflow-logs?documentId=&sort=
func (h *Handlers) ListLogs(c *gin.Context) {
	newestFirst, err := parseSort(c.Query("sort"))
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.services.Logs.List(c.Request.Context(), port.LogFilter{
		DocumentID:         c.Query("documentId"),
		DocumentWorkflowID: c.Query("documentWorkflowId"),
		NewestFirst:        newestFirst,
	})
	if err != nil {
		h.respondError(c, "list workflow logs", err)
		return
	}
	ok(c, http.StatusOK, logs)
}

// AppendLog handles POST /api/workflow-logs. The acting user is taken from the token.
func (h *Handlers) AppendLog(c *gin.Context) {
	var in service.AppendLogInput
	if !h.bindJSON(c, &in) {
		return
	}
	if actor := actorFrom(c); actor != nil {
		in.UserID = actor.ID
	}

	result, err := h.services.Logs.Append(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "append workflow log", err)
		return
	}
	ok(c, http.StatusCreated, result)
}

// ExportLogs handles GET /api/workflow-logs/export?documentId=
func (h *Handlers) ExportLogs(c *gin.Context) {
	docID := c.Query("documentId")

	data, err := h.services.Export.ExportLogs(c.Request.Context(), docID)
	if err != nil {
		h.respondError(c, "export workflow logs", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="workflow-log-%s.xlsx"`, docID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ListBlogPosts handles GET /api/blog?limit=&offset=
func (h *Handlers) ListBlogPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	posts, err := h.services.Blog.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, "list blog posts", err)
		return
	}
	ok(c, http.StatusOK, posts)
}

// CreateBlogPost handles POST /api/blog
func (h *Handlers) CreateBlogPost(c *gin.Context) {
	var in service.CreateBlogInput
	if !h.bindJSON(c, &in) {
		return
	}

	userID := entity.SystemUserID
	if actor := actorFrom(c); actor != nil {
		userID = actor.ID
	}

	post, err := h.services.Blog.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.respondError(c, "create blog post", err)
		return
	}
	ok(c, http.StatusCreated, post)
}

// GetBlogPost handles GET /api/blog/:id
func (h *Handlers) GetBlogPost(c *gin.Context) {
	post, err := h.services.Blog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get blog post", err)
		return
	}
	ok(c, http.StatusOK, post)
}

func (h *Handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Error("Invalid request body", "path", c.Request.URL.Path, "error", err)
		abort(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

var errorStatus = []struct {
	sentinel error
	status   int
}{
	{port.ErrValidation, http.StatusBadRequest},
	{port.ErrNotFound, http.StatusNotFound},
	{port.ErrConflict, http.StatusConflict},
	{port.ErrDuplicate, http.StatusConflict},
	{port.ErrForbidden, http.StatusForbidden},
	{port.ErrUnauthorized, http.StatusUnauthorized},
}

// respondError maps service sentinels to status codes; anything else is a logged 500
func (h *Handlers) respondError(c *gin.Context, op string, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.sentinel) {
			abort(c, m.status, publicMessage(err, m.sentinel))
			return
		}
	}

	h.logger.Error("Request failed", "operation", op, "path", c.Request.URL.Path, "error", err)
	abort(c, http.StatusInternalServerError, "Internal server error")
}

// publicMessage drops wrapping context up to and including the sentinel text
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

func parseSort(sort string) (newestFirst bool, err error) {
	switch sort {
	case "", "createdAt":
		return false, nil
	case "-createdAt":
		return true, nil
	}
	return false, fmt.Errorf("unsupported sort %q", sort)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}
