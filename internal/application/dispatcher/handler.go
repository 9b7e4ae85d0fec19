package dispatcher

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/event"
)

// Handler processes a dispatched event.
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler.
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
