package service

import (
	"context"

	"github.com/garyjia/doc-workflow/internal/application/dispatcher"
	"github.com/garyjia/doc-workflow/internal/domain/event"
)

// EventEmitter dispatches service events; a nil dispatcher drops them
type EventEmitter struct {
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewEventEmitter wraps a dispatcher for use by services
func NewEventEmitter(d dispatcher.Dispatcher, logger Logger) EventEmitter {
	return EventEmitter{dispatcher: d, logger: logger}
}

func (e EventEmitter) emit(ctx context.Context, evt *event.Event) {
	if e.dispatcher == nil {
		return
	}
	if err := e.dispatcher.Dispatch(ctx, evt); err != nil && e.logger != nil {
		e.logger.Error("Failed to dispatch event", "event_type", evt.Type.String(), "error", err)
	}
}
