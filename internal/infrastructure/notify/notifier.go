package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/dispatcher"
	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/event"
)

// NotifiedEvents are the event types forwarded to notification sinks
var NotifiedEvents = []event.Type{
	event.TypeApprovalRequested,
	event.TypeWorkflowCompleted,
	event.TypeWorkflowRejected,
}

// Multi fans a notification out to every sink. Every sink is attempted;
// failures are joined.
type Multi []port.Notifier

// Name returns the sink name
func (m Multi) Name() string { return "multi" }

// Notify delivers to every sink
func (m Multi) Notify(ctx context.Context, msg port.Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// FromEvent builds a notification from a workflow event
func FromEvent(evt *event.Event) port.Notification {
	return port.Notification{
		Kind:       evt.Type.String(),
		DocumentID: evt.DocumentID,
		InstanceID: evt.InstanceID,
		Message:    evt.Message,
	}
}

// Register subscribes each notifier to NotifiedEvents on the dispatcher
func Register(d dispatcher.Dispatcher, logger *zap.Logger, notifiers ...port.Notifier) {
	for _, n := range notifiers {
		n := n
		for _, evtType := range NotifiedEvents {
			d.SubscribeNamed(evtType, "notify-"+n.Name(), func(ctx context.Context, evt *event.Event) error {
				return n.Notify(ctx, FromEvent(evt))
			})
		}
		logger.Info("Notification sink registered", zap.String("sink", n.Name()))
	}
}

var _ port.Notifier = Multi(nil)
