package port

import (
	"context"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

// Notification is a human-readable message about a workflow instance
type Notification struct {
	Kind       string
	DocumentID string
	InstanceID string
	Message    string
}

// Notifier delivers workflow notifications to an external sink
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Name() string
}

// DocumentSource loads the field view of a governed document
type DocumentSource interface {
	// Load returns (nil, nil) when the document does not exist
	Load(ctx context.Context, collection, id string) (entity.Document, error)
}
