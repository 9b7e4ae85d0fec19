package port

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
)

// Notifier delivers workflow notifications. Delivery failure never affects
// the workflow state; implementations must not block for long.
type Notifier interface {
	StatusChanged(ctx context.Context, version *entity.DocumentVersion, oldStatus, newStatus int, actingUserID int64) error
	VoteSubmitted(ctx context.Context, version *entity.DocumentVersion, e *entity.VoteLogEntry) error
}
