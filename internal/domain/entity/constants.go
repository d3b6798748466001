package entity

// Status constants for DocumentWorkflow
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Action constants for WorkflowLog
const (
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionCommented = "commented"
)

// Blog post status constants
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// Collection slugs
const (
	CollectionBlog              = "blog"
	CollectionWorkflows         = "workflows"
	CollectionWorkflowSteps     = "workflow-steps"
	CollectionDocumentWorkflows = "document-workflows"
	CollectionWorkflowLogs      = "workflow-logs"
)

// SystemUserID is recorded as the actor when no authenticated user is present
const SystemUserID = "system"

// IsValidStatus reports whether s is a DocumentWorkflow status value
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// IsValidAction reports whether a is a WorkflowLog action value
func IsValidAction(a string) bool {
	switch a {
	case ActionApproved, ActionRejected, ActionCommented:
		return true
	}
	return false
}

// IsValidBlogStatus reports whether s is a blog post status value
func IsValidBlogStatus(s string) bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}
