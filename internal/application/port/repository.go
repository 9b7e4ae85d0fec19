package port

import (
	"context"
	"time"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
)

// DocumentRepository defines persistence operations for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
}

// VersionRepository defines persistence operations for document versions and
// their status history.
type VersionRepository interface {
	Create(ctx context.Context, version *entity.DocumentVersion) error
	GetByID(ctx context.Context, id int64) (*entity.DocumentVersion, error)
	GetLatest(ctx context.Context, documentID int64) (*entity.DocumentVersion, error)

	// UpdateStatus sets the version status and appends a status history
	// entry in the same statement sequence. It fails if the stored status
	// no longer matches fromStatus, so concurrent last-voter races cannot
	// both commit.
	UpdateStatus(ctx context.Context, versionID int64, fromStatus, toStatus int, comment string, userID int64) error

	// MarkRevisionStarted stamps the start of a revision round.
	MarkRevisionStarted(ctx context.Context, versionID int64) error

	// SetExpires sets or clears (nil) the expiry date of a version.
	SetExpires(ctx context.Context, versionID int64, expiresAt *time.Time) error

	// StatusHistory returns the ordered status log of a version.
	StatusHistory(ctx context.Context, versionID int64) ([]*entity.StatusChange, error)
}

// IDSets carries individual and group entity ids, the shape used for
// participant lists.
type IDSets struct {
	Individuals []int64 `json:"i"`
	Groups      []int64 `json:"g"`
}

// VoteLogRepository defines the append-only vote log per document version
// and workflow role.
type VoteLogRepository interface {
	// AddParticipant registers a required voter and writes its initial
	// sleeping log entry. Returns the log entry id.
	AddParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) (int64, error)

	// RemoveParticipant withdraws a participant that has not voted yet by
	// marking its entries not required.
	RemoveParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) error

	// CastVote appends a vote for a registered participant and returns the
	// log entry id.
	CastVote(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64, status int, comment, filePath string) (int64, error)

	// StartRound begins a revision round: one sleeping entry is appended
	// per registered revisor.
	StartRound(ctx context.Context, versionID, actingUserID int64) error

	// Log returns up to limit entries for a role, most recent first.
	Log(ctx context.Context, versionID int64, role entity.Role, limit int) ([]*entity.VoteLogEntry, error)

	// Summary returns one element per registered participant carrying its
	// latest log status.
	Summary(ctx context.Context, versionID int64, role entity.Role) ([]entity.ParticipantStatus, error)

	// Participants returns the registered participant ids grouped by kind.
	Participants(ctx context.Context, versionID int64, role entity.Role) (IDSets, error)
}

// GroupRepository resolves group membership for group-members-as-individuals
// expansion.
type GroupRepository interface {
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
