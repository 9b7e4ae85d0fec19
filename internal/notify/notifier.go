// Package notify delivers workflow notifications to the people waiting on a
// document: owners, outstanding voters, recipients.
package notify

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"go.uber.org/zap"
)

// LogNotifier implements port.Notifier by writing structured notification
// records to the log. It stands in for mail or chat delivery backends.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// StatusChanged records a status transition notification.
func (n *LogNotifier) StatusChanged(ctx context.Context, version *entity.DocumentVersion, oldStatus, newStatus int, actingUserID int64) error {
	from, _ := lifecycle.FromCode(oldStatus)
	to, _ := lifecycle.FromCode(newStatus)

	n.logger.Info("Notification: document status changed",
		zap.Int64("document_id", version.DocumentID),
		zap.Int64("version_id", version.ID),
		zap.String("old_status", from.String()),
		zap.String("new_status", to.String()),
		zap.Int64("acting_user_id", actingUserID))
	return nil
}

// VoteSubmitted records a vote notification.
func (n *LogNotifier) VoteSubmitted(ctx context.Context, version *entity.DocumentVersion, e *entity.VoteLogEntry) error {
	n.logger.Info("Notification: vote submitted",
		zap.Int64("document_id", version.DocumentID),
		zap.Int64("version_id", version.ID),
		zap.String("role", e.Role.String()),
		zap.Int("vote", e.Status),
		zap.Int64("acting_user_id", e.ActingUserID))
	return nil
}

// Verify interface compliance
var _ port.Notifier = (*LogNotifier)(nil)
