package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
)

// LogNotifier writes notifications to the application log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Name returns the sink name
func (n *LogNotifier) Name() string { return "log" }

// Notify logs the message with a NOTIFICATION prefix
func (n *LogNotifier) Notify(_ context.Context, msg port.Notification) error {
	n.logger.Info("NOTIFICATION: "+msg.Message,
		zap.String("kind", msg.Kind),
		zap.String("document_id", msg.DocumentID),
		zap.String("instance_id", msg.InstanceID))
	return nil
}

var _ port.Notifier = (*LogNotifier)(nil)
