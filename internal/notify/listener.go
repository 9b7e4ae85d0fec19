package notify

import (
	"context"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/dispatcher"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/event"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

// Listener bridges domain events to the notifier. It is registered on the
// dispatcher so notification delivery stays off the voting path.
type Listener struct {
	versions port.VersionRepository
	notifier port.Notifier
}

// NewListener creates a notification listener.
func NewListener(versions port.VersionRepository, notifier port.Notifier) *Listener {
	return &Listener{
		versions: versions,
		notifier: notifier,
	}
}

// Register subscribes the listener's handlers on the dispatcher.
func (l *Listener) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStatusChanged, "notify-status-changed", l.onStatusChanged)
	d.SubscribeNamed(event.TypeVoteCast, "notify-vote-cast", l.onVoteCast)
}

func (l *Listener) onStatusChanged(ctx context.Context, evt *event.Event) error {
	version, err := l.versions.GetByID(ctx, evt.VersionID)
	if err != nil {
		return fmt.Errorf("load version %d: %w", evt.VersionID, err)
	}

	oldStatus := lifecycle.Status(evt.PayloadString("old_status"))
	newStatus := lifecycle.Status(evt.PayloadString("new_status"))
	if !oldStatus.IsValid() || !newStatus.IsValid() {
		return fmt.Errorf("unknown status in event %s", evt.ID)
	}

	return l.notifier.StatusChanged(ctx, version, oldStatus.Code(), newStatus.Code(), evt.PayloadInt("acting_user_id"))
}

func (l *Listener) onVoteCast(ctx context.Context, evt *event.Event) error {
	version, err := l.versions.GetByID(ctx, evt.VersionID)
	if err != nil {
		return fmt.Errorf("load version %d: %w", evt.VersionID, err)
	}

	entry := &entity.VoteLogEntry{
		ID:           evt.PayloadInt("log_id"),
		Role:         entity.Role(evt.PayloadString("role")),
		Kind:         entity.Kind(evt.PayloadString("kind")),
		ActingUserID: evt.PayloadInt("acting_user_id"),
		Status:       int(evt.PayloadInt("status")),
	}
	return l.notifier.VoteSubmitted(ctx, version, entry)
}
