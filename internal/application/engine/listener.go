package engine

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

// Listeners are registered at engine construction and dispatched as typed
// calls. Pre hooks are advisory: errors are logged but never abort the
// operation. Post hooks run only after a status change has been committed,
// receiving the old and the new status. Registering no listeners is fine.

// ApprovalListener observes approval votes.
type ApprovalListener interface {
	PreApprove(ctx context.Context, version *entity.DocumentVersion) error
	PostApprove(ctx context.Context, version *entity.DocumentVersion, oldStatus, newStatus lifecycle.Status)
}

// ReviewListener observes review votes.
type ReviewListener interface {
	PreReview(ctx context.Context, version *entity.DocumentVersion) error
	PostReview(ctx context.Context, version *entity.DocumentVersion, oldStatus, newStatus lifecycle.Status)
}

// RevisionListener observes revision rounds and votes.
type RevisionListener interface {
	PreRevise(ctx context.Context, version *entity.DocumentVersion) error
	PostRevise(ctx context.Context, version *entity.DocumentVersion, oldStatus, newStatus lifecycle.Status)
}

// ReceptionListener observes reception acknowledgements.
type ReceptionListener interface {
	PreReceive(ctx context.Context, version *entity.DocumentVersion) error
	PostReceive(ctx context.Context, version *entity.DocumentVersion, e *entity.VoteLogEntry)
}
